package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/frank113/FinDash/internal/domain"
)

// CategoryUseCase handles the category and goal model.
type CategoryUseCase struct {
	categoryStore CategoryStore
	ruleStore     RuleStore
	ledgerStore   LedgerStore
	idGen         IDGenerator
	cache         ReportCache
}

// NewCategoryUseCase creates a new CategoryUseCase. cache may be nil.
func NewCategoryUseCase(
	categoryStore CategoryStore,
	ruleStore RuleStore,
	ledgerStore LedgerStore,
	idGen IDGenerator,
	cache ReportCache,
) *CategoryUseCase {
	return &CategoryUseCase{
		categoryStore: categoryStore,
		ruleStore:     ruleStore,
		ledgerStore:   ledgerStore,
		idGen:         idGen,
		cache:         cache,
	}
}

// CreateCategoryInput represents input for creating a category.
type CreateCategoryInput struct {
	Name        string
	MonthlyGoal *int64
}

// CreateCategory creates a new category.
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	if err := domain.ValidateCategoryName(input.Name); err != nil {
		return nil, err
	}

	category := &domain.Category{
		ID:          uc.idGen.Generate(),
		Name:        strings.TrimSpace(input.Name),
		MonthlyGoal: input.MonthlyGoal,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.categoryStore.Create(ctx, category); err != nil {
		return nil, err
	}

	// A goal adds a line to every month's report, not just months with
	// spend, so the whole cache goes.
	if category.Tracked() {
		invalidateAllReports(ctx, uc.cache)
	}
	return category, nil
}

// GetCategory retrieves a category by id.
func (uc *CategoryUseCase) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return uc.categoryStore.GetByID(ctx, id)
}

// ListCategories lists all categories.
func (uc *CategoryUseCase) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return uc.categoryStore.List(ctx)
}

// UpdateCategoryInput represents a partial category update. ClearGoal
// beats MonthlyGoal when both are set.
type UpdateCategoryInput struct {
	Name        *string
	MonthlyGoal *int64
	ClearGoal   bool
}

// UpdateCategory renames a category and/or changes its monthly goal.
func (uc *CategoryUseCase) UpdateCategory(ctx context.Context, id string, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := uc.categoryStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := domain.ValidateCategoryName(*input.Name); err != nil {
			return nil, err
		}
		category.Name = strings.TrimSpace(*input.Name)
	}
	switch {
	case input.ClearGoal:
		category.MonthlyGoal = nil
	case input.MonthlyGoal != nil:
		category.MonthlyGoal = input.MonthlyGoal
	}

	if err := uc.categoryStore.Update(ctx, category); err != nil {
		return nil, err
	}

	// Names and goals appear in every cached report line.
	invalidateAllReports(ctx, uc.cache)
	return category, nil
}

// DeleteCategory deletes a category. Transactions that referenced it
// return to the uncategorized bucket and rules targeting it are
// removed; transactions themselves are never deleted here.
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	// 1. Resolve first so a bad id fails before the ledger is locked.
	if _, err := uc.categoryStore.GetByID(ctx, id); err != nil {
		return err
	}

	// 2. Strip ledger references under the writer, committed before
	// the row goes away.
	session, err := uc.ledgerStore.Begin(ctx)
	if err != nil {
		return err
	}
	defer session.Close(ctx)

	ledger := session.Ledger()
	ledger.ClearCategory(id)
	if err := session.Commit(ctx); err != nil {
		return err
	}

	// 3. Rules pointing at the category go with it.
	if err := uc.ruleStore.DeleteByCategory(ctx, id); err != nil {
		return err
	}
	if err := uc.categoryStore.Delete(ctx, id); err != nil {
		return err
	}

	invalidateAllReports(ctx, uc.cache)
	return nil
}
