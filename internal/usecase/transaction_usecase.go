package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/frank113/FinDash/internal/domain"
)

// TransactionUseCase reads and mutates individual ledger rows.
type TransactionUseCase struct {
	ledgerStore   LedgerStore
	categoryStore CategoryStore
	cache         ReportCache
}

// NewTransactionUseCase creates a new TransactionUseCase. cache may be
// nil.
func NewTransactionUseCase(ledgerStore LedgerStore, categoryStore CategoryStore, cache ReportCache) *TransactionUseCase {
	return &TransactionUseCase{
		ledgerStore:   ledgerStore,
		categoryStore: categoryStore,
		cache:         cache,
	}
}

// ListTransactionsInput filters the transaction listing.
type ListTransactionsInput struct {
	AccountID     string
	Month         *domain.Month
	CategoryID    string
	Uncategorized bool
	Limit         int
	Offset        int
}

// ListTransactions returns one page of matching transactions ordered by
// date then id, plus the total match count for pagination.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, int, error) {
	ledger, err := uc.ledgerStore.Snapshot(ctx)
	if err != nil {
		return nil, 0, err
	}

	var matches []*domain.Transaction
	for _, t := range ledger.All() {
		if input.AccountID != "" && t.AccountID != input.AccountID {
			continue
		}
		if input.Month != nil && !input.Month.Contains(t.Date) {
			continue
		}
		if input.CategoryID != "" && (t.CategoryID == nil || *t.CategoryID != input.CategoryID) {
			continue
		}
		if input.Uncategorized && (t.CategoryID != nil || t.Split) {
			continue
		}
		matches = append(matches, t)
	}

	total := len(matches)
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

// GetTransaction retrieves one transaction by id.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	ledger, err := uc.ledgerStore.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.Get(id)
}

// Categorize assigns a category to a transaction, or returns it to the
// uncategorized bucket when categoryID is nil.
func (uc *TransactionUseCase) Categorize(ctx context.Context, transactionID string, categoryID *string) (*domain.Transaction, error) {
	if categoryID != nil {
		if _, err := uc.categoryStore.GetByID(ctx, *categoryID); err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, *categoryID)
			}
			return nil, err
		}
	}

	session, err := uc.ledgerStore.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close(ctx)

	ledger := session.Ledger()
	txn, err := ledger.Categorize(transactionID, categoryID)
	if err != nil {
		return nil, err
	}

	months := ledger.TouchedMonths()
	if err := session.Commit(ctx); err != nil {
		return nil, err
	}
	invalidateMonths(ctx, uc.cache, months)

	return txn, nil
}

// DeleteTransaction removes a transaction. Deleting a split parent
// cascades to its children; deleting a single child is rejected.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, transactionID string) error {
	session, err := uc.ledgerStore.Begin(ctx)
	if err != nil {
		return err
	}
	defer session.Close(ctx)

	ledger := session.Ledger()
	if err := ledger.Remove(transactionID); err != nil {
		return err
	}

	months := ledger.TouchedMonths()
	if err := session.Commit(ctx); err != nil {
		return err
	}
	invalidateMonths(ctx, uc.cache, months)

	return nil
}
