package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/frank113/FinDash/internal/domain"
	"github.com/frank113/FinDash/internal/usecase"
	"github.com/frank113/FinDash/internal/usecase/mocks"
)

func newCategoryUseCase(ledgerStore *mocks.MockLedgerStore, categoryStore *mocks.MockCategoryStore, ruleStore *mocks.MockRuleStore, cache *mocks.MockReportCache) *usecase.CategoryUseCase {
	if cache == nil {
		return usecase.NewCategoryUseCase(categoryStore, ruleStore, ledgerStore, mocks.NewMockIDGenerator(), nil)
	}
	return usecase.NewCategoryUseCase(categoryStore, ruleStore, ledgerStore, mocks.NewMockIDGenerator(), cache)
}

func TestCategoryUseCase_CreateCategory(t *testing.T) {
	goal := int64(-50000)

	tests := []struct {
		name        string
		input       usecase.CreateCategoryInput
		setupMocks  func(*mocks.MockCategoryStore)
		wantName    string
		expectError bool
		errorType   error
	}{
		{
			name:       "create without goal",
			input:      usecase.CreateCategoryInput{Name: "Groceries"},
			setupMocks: func(cs *mocks.MockCategoryStore) {},
			wantName:   "Groceries",
		},
		{
			name:       "create with goal",
			input:      usecase.CreateCategoryInput{Name: "Rent", MonthlyGoal: &goal},
			setupMocks: func(cs *mocks.MockCategoryStore) {},
			wantName:   "Rent",
		},
		{
			name:       "name is trimmed",
			input:      usecase.CreateCategoryInput{Name: "  Dining Out  "},
			setupMocks: func(cs *mocks.MockCategoryStore) {},
			wantName:   "Dining Out",
		},
		{
			name:        "empty name",
			input:       usecase.CreateCategoryInput{Name: "   "},
			setupMocks:  func(cs *mocks.MockCategoryStore) {},
			expectError: true,
			errorType:   domain.ErrInvalidCategoryName,
		},
		{
			name:  "duplicate name",
			input: usecase.CreateCategoryInput{Name: "Groceries"},
			setupMocks: func(cs *mocks.MockCategoryStore) {
				seedCategory(t, cs, "cat-1", "Groceries")
			},
			expectError: true,
			errorType:   domain.ErrDuplicateCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			categoryStore := mocks.NewMockCategoryStore()
			tt.setupMocks(categoryStore)

			uc := newCategoryUseCase(mocks.NewMockLedgerStore(), categoryStore, mocks.NewMockRuleStore(), nil)
			category, err := uc.CreateCategory(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if category.ID == "" {
				t.Error("category has no id")
			}
			if category.Name != tt.wantName {
				t.Errorf("name = %q, want %q", category.Name, tt.wantName)
			}
			if tt.input.MonthlyGoal != nil {
				if category.MonthlyGoal == nil || *category.MonthlyGoal != *tt.input.MonthlyGoal {
					t.Error("goal not stored")
				}
			}
		})
	}
}

func TestCategoryUseCase_CreateWithGoalInvalidatesReports(t *testing.T) {
	goal := int64(-50000)
	cache := mocks.NewMockReportCache()
	uc := newCategoryUseCase(mocks.NewMockLedgerStore(), mocks.NewMockCategoryStore(), mocks.NewMockRuleStore(), cache)

	if _, err := uc.CreateCategory(context.Background(), usecase.CreateCategoryInput{Name: "Groceries"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if cache.InvalidatedAll != 0 {
		t.Error("untracked category should not invalidate reports")
	}

	if _, err := uc.CreateCategory(context.Background(), usecase.CreateCategoryInput{Name: "Rent", MonthlyGoal: &goal}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if cache.InvalidatedAll != 1 {
		t.Errorf("expected one full invalidation, got %d", cache.InvalidatedAll)
	}
}

func TestCategoryUseCase_UpdateCategory(t *testing.T) {
	newName := "Food"
	badName := "  "
	goal := int64(-40000)

	tests := []struct {
		name        string
		id          string
		input       usecase.UpdateCategoryInput
		check       func(*testing.T, *domain.Category)
		expectError bool
		errorType   error
	}{
		{
			name:  "rename",
			id:    "cat-1",
			input: usecase.UpdateCategoryInput{Name: &newName},
			check: func(t *testing.T, c *domain.Category) {
				if c.Name != "Food" {
					t.Errorf("name = %q, want Food", c.Name)
				}
			},
		},
		{
			name:  "set goal",
			id:    "cat-1",
			input: usecase.UpdateCategoryInput{MonthlyGoal: &goal},
			check: func(t *testing.T, c *domain.Category) {
				if c.MonthlyGoal == nil || *c.MonthlyGoal != -40000 {
					t.Error("goal not set")
				}
			},
		},
		{
			name:  "clear goal",
			id:    "cat-2",
			input: usecase.UpdateCategoryInput{ClearGoal: true},
			check: func(t *testing.T, c *domain.Category) {
				if c.MonthlyGoal != nil {
					t.Error("goal not cleared")
				}
			},
		},
		{
			name:        "invalid name",
			id:          "cat-1",
			input:       usecase.UpdateCategoryInput{Name: &badName},
			expectError: true,
			errorType:   domain.ErrInvalidCategoryName,
		},
		{
			name:        "unknown category",
			id:          "cat-99",
			input:       usecase.UpdateCategoryInput{Name: &newName},
			expectError: true,
			errorType:   domain.ErrCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			categoryStore := mocks.NewMockCategoryStore()
			seedCategory(t, categoryStore, "cat-1", "Groceries")
			trackedGoal := int64(-90000)
			if err := categoryStore.Create(context.Background(), &domain.Category{ID: "cat-2", Name: "Rent", MonthlyGoal: &trackedGoal}); err != nil {
				t.Fatalf("seed: %v", err)
			}

			cache := mocks.NewMockReportCache()
			uc := newCategoryUseCase(mocks.NewMockLedgerStore(), categoryStore, mocks.NewMockRuleStore(), cache)
			category, err := uc.UpdateCategory(context.Background(), tt.id, tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, category)
			if cache.InvalidatedAll != 1 {
				t.Errorf("expected one full invalidation, got %d", cache.InvalidatedAll)
			}
		})
	}
}

func TestCategoryUseCase_DeleteCategory(t *testing.T) {
	groceries := "cat-groceries"
	ledgerStore := mocks.NewMockLedgerStore()
	ledgerStore.Seed(
		&domain.Transaction{ID: "t-01", AccountID: "acc-1", Date: domain.NewDate(2025, 1, 5), Amount: -4250, RawDescription: "SUPERMARKET", SourceHash: "h1", CategoryID: &groceries},
		&domain.Transaction{ID: "t-02", AccountID: "acc-1", Date: domain.NewDate(2025, 1, 6), Amount: -450, RawDescription: "COFFEE SHOP", SourceHash: "h2"},
	)

	categoryStore := mocks.NewMockCategoryStore()
	seedCategory(t, categoryStore, "cat-groceries", "Groceries")

	ruleStore := mocks.NewMockRuleStore()
	if err := ruleStore.Create(context.Background(), &domain.Rule{ID: "r-1", Pattern: "market", CategoryID: "cat-groceries"}); err != nil {
		t.Fatalf("seed rule: %v", err)
	}
	if err := ruleStore.Create(context.Background(), &domain.Rule{ID: "r-2", Pattern: "taxi", CategoryID: "cat-transport"}); err != nil {
		t.Fatalf("seed rule: %v", err)
	}

	cache := mocks.NewMockReportCache()
	uc := newCategoryUseCase(ledgerStore, categoryStore, ruleStore, cache)

	if err := uc.DeleteCategory(context.Background(), "cat-groceries"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Transactions keep existing, back in the uncategorized bucket.
	ledger, _ := ledgerStore.Snapshot(context.Background())
	if ledger.Len() != 2 {
		t.Fatalf("expected both transactions to survive, got %d", ledger.Len())
	}
	txn, _ := ledger.Get("t-01")
	if txn.CategoryID != nil {
		t.Error("transaction still references the deleted category")
	}

	// Rules for the category are gone, others stay.
	rules, _ := ruleStore.List(context.Background())
	if len(rules) != 1 || rules[0].ID != "r-2" {
		t.Errorf("expected only r-2 to survive, got %v", rules)
	}

	if _, err := categoryStore.GetByID(context.Background(), "cat-groceries"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Error("category row still present")
	}
	if cache.InvalidatedAll != 1 {
		t.Errorf("expected one full invalidation, got %d", cache.InvalidatedAll)
	}
}

func TestCategoryUseCase_DeleteUnknownCategory(t *testing.T) {
	ledgerStore := mocks.NewMockLedgerStore()
	uc := newCategoryUseCase(ledgerStore, mocks.NewMockCategoryStore(), mocks.NewMockRuleStore(), nil)

	err := uc.DeleteCategory(context.Background(), "cat-99")
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
	if ledgerStore.Commits != 0 {
		t.Errorf("expected no ledger commit, got %d", ledgerStore.Commits)
	}
}

func TestCategoryUseCase_GetAndList(t *testing.T) {
	categoryStore := mocks.NewMockCategoryStore()
	seedCategory(t, categoryStore, "cat-1", "Groceries")
	seedCategory(t, categoryStore, "cat-2", "Dining Out")
	uc := newCategoryUseCase(mocks.NewMockLedgerStore(), categoryStore, mocks.NewMockRuleStore(), nil)

	category, err := uc.GetCategory(context.Background(), "cat-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if category.Name != "Groceries" {
		t.Errorf("got %q, want Groceries", category.Name)
	}

	categories, err := uc.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories[0].Name != "Dining Out" || categories[1].Name != "Groceries" {
		t.Errorf("expected name order, got %s then %s", categories[0].Name, categories[1].Name)
	}
}
