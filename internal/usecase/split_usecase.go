package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frank113/FinDash/internal/domain"
)

// SplitUseCase divides one transaction across several categories.
type SplitUseCase struct {
	ledgerStore   LedgerStore
	categoryStore CategoryStore
	idGen         IDGenerator
	cache         ReportCache
}

// NewSplitUseCase creates a new SplitUseCase. cache may be nil.
func NewSplitUseCase(
	ledgerStore LedgerStore,
	categoryStore CategoryStore,
	idGen IDGenerator,
	cache ReportCache,
) *SplitUseCase {
	return &SplitUseCase{
		ledgerStore:   ledgerStore,
		categoryStore: categoryStore,
		idGen:         idGen,
		cache:         cache,
	}
}

// SplitPart is one category's share of a split.
type SplitPart struct {
	CategoryID string
	Amount     int64
}

// SplitInput represents input for splitting a transaction.
type SplitInput struct {
	TransactionID string
	Parts         []SplitPart
}

// Split replaces one transaction's effect with child transactions whose
// amounts must sum to the parent exactly. The parent is retained,
// marked split and excluded from aggregation. Nothing is written when
// any precondition fails.
func (uc *SplitUseCase) Split(ctx context.Context, input SplitInput) ([]*domain.Transaction, error) {
	// 1. Validate before taking the ledger writer.
	if len(input.Parts) == 0 {
		return nil, domain.ErrEmptySplit
	}
	if err := uc.checkCategories(ctx, input.Parts); err != nil {
		return nil, err
	}

	// 2. Build the children; the ledger fills in the inherited fields.
	now := time.Now().UTC()
	children := make([]*domain.Transaction, 0, len(input.Parts))
	for _, p := range input.Parts {
		categoryID := p.CategoryID
		children = append(children, &domain.Transaction{
			ID:         uc.idGen.Generate(),
			Amount:     p.Amount,
			CategoryID: &categoryID,
			CreatedAt:  now,
		})
	}

	// 3. Apply under the exclusive session.
	session, err := uc.ledgerStore.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close(ctx)

	ledger := session.Ledger()
	if err := ledger.Split(input.TransactionID, children); err != nil {
		return nil, err
	}

	months := ledger.TouchedMonths()
	if err := session.Commit(ctx); err != nil {
		return nil, err
	}
	invalidateMonths(ctx, uc.cache, months)

	return children, nil
}

// UndoSplit deletes a transaction's children and restores it to
// aggregation. Undo followed by a fresh split is the only way to
// change an existing split.
func (uc *SplitUseCase) UndoSplit(ctx context.Context, transactionID string) error {
	session, err := uc.ledgerStore.Begin(ctx)
	if err != nil {
		return err
	}
	defer session.Close(ctx)

	ledger := session.Ledger()
	if err := ledger.UndoSplit(transactionID); err != nil {
		return err
	}

	months := ledger.TouchedMonths()
	if err := session.Commit(ctx); err != nil {
		return err
	}
	invalidateMonths(ctx, uc.cache, months)

	return nil
}

func (uc *SplitUseCase) checkCategories(ctx context.Context, parts []SplitPart) error {
	seen := make(map[string]bool)
	for _, p := range parts {
		if p.CategoryID == "" {
			return fmt.Errorf("%w: part without category", domain.ErrUnknownCategory)
		}
		if seen[p.CategoryID] {
			continue
		}
		seen[p.CategoryID] = true

		if _, err := uc.categoryStore.GetByID(ctx, p.CategoryID); err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return fmt.Errorf("%w: %s", domain.ErrUnknownCategory, p.CategoryID)
			}
			return err
		}
	}
	return nil
}
