package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/frank113/FinDash/internal/domain"
	"github.com/frank113/FinDash/internal/statement"
	"github.com/frank113/FinDash/internal/usecase"
	"github.com/frank113/FinDash/internal/usecase/mocks"
)

func csvSource(t *testing.T, data string) statement.RowSource {
	t.Helper()
	src, err := statement.NewCSVSource(strings.NewReader(data))
	if err != nil {
		t.Fatalf("new csv source: %v", err)
	}
	return src
}

func seedAccount(t *testing.T, store *mocks.MockAccountStore, id, institution string) {
	t.Helper()
	err := store.Create(context.Background(), &domain.Account{
		ID:          id,
		Name:        "account " + id,
		Institution: institution,
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
}

func TestImportUseCase_Import(t *testing.T) {
	const statementCSV = "Date,Description,Amount\n" +
		"2025-01-05,SUPERMARKET,-42.50\n" +
		"2025-01-06,PAYCHECK,2000.00\n" +
		"2025-01-07,COFFEE SHOP,-4.50\n"

	tests := []struct {
		name           string
		accountID      string
		csv            string
		strict         bool
		setupMocks     func(*mocks.MockLedgerStore, *mocks.MockAccountStore, *mocks.MockRuleStore)
		wantAdmitted   int
		wantDuplicates int
		wantMalformed  int
		expectError    bool
		errorType      error
	}{
		{
			name:         "admits well-formed rows",
			accountID:    "acc-1",
			csv:          statementCSV,
			setupMocks:   func(ls *mocks.MockLedgerStore, as *mocks.MockAccountStore, rs *mocks.MockRuleStore) {},
			wantAdmitted: 3,
		},
		{
			name:      "partial import keeps good rows and reports bad ones",
			accountID: "acc-1",
			csv: "Date,Description,Amount\n" +
				"2025-01-05,SUPERMARKET,-42.50\n" +
				"not-a-date,BROKEN,-1.00\n" +
				"2025-01-07,COFFEE SHOP,abc\n" +
				"2025-01-08,RENT,-900.00\n",
			setupMocks:    func(ls *mocks.MockLedgerStore, as *mocks.MockAccountStore, rs *mocks.MockRuleStore) {},
			wantAdmitted:  2,
			wantMalformed: 2,
		},
		{
			name:      "strict import aborts on the first malformed row",
			accountID: "acc-1",
			csv: "Date,Description,Amount\n" +
				"2025-01-05,SUPERMARKET,-42.50\n" +
				"not-a-date,BROKEN,-1.00\n",
			strict:        true,
			setupMocks:    func(ls *mocks.MockLedgerStore, as *mocks.MockAccountStore, rs *mocks.MockRuleStore) {},
			wantMalformed: 1,
			expectError:   true,
			errorType:     domain.ErrStrictImport,
		},
		{
			name:        "unknown account",
			accountID:   "acc-missing",
			csv:         statementCSV,
			setupMocks:  func(ls *mocks.MockLedgerStore, as *mocks.MockAccountStore, rs *mocks.MockRuleStore) {},
			expectError: true,
			errorType:   domain.ErrAccountNotFound,
		},
		{
			name:      "duplicate rows already in the ledger are dropped",
			accountID: "acc-1",
			csv:       statementCSV,
			setupMocks: func(ls *mocks.MockLedgerStore, as *mocks.MockAccountStore, rs *mocks.MockRuleStore) {
				ls.Seed(&domain.Transaction{
					ID:             "existing-1",
					AccountID:      "acc-1",
					Date:           domain.NewDate(2025, 1, 5),
					Amount:         -4250,
					RawDescription: "SUPERMARKET",
					SourceHash:     domain.ComputeSourceHash("acc-1", domain.NewDate(2025, 1, 5), -4250, "SUPERMARKET"),
				})
			},
			wantAdmitted:   2,
			wantDuplicates: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledgerStore := mocks.NewMockLedgerStore()
			accountStore := mocks.NewMockAccountStore()
			ruleStore := mocks.NewMockRuleStore()
			seedAccount(t, accountStore, "acc-1", "generic")
			tt.setupMocks(ledgerStore, accountStore, ruleStore)

			uc := usecase.NewImportUseCase(ledgerStore, accountStore, ruleStore, mocks.NewMockIDGenerator(), nil)
			result, err := uc.Import(context.Background(), usecase.ImportInput{
				AccountID: tt.accountID,
				Source:    csvSource(t, tt.csv),
				Strict:    tt.strict,
			})

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				if ledgerStore.Commits != 0 {
					t.Errorf("expected no commit, got %d", ledgerStore.Commits)
				}
				if result != nil && len(result.Malformed) != tt.wantMalformed {
					t.Errorf("expected %d malformed rows, got %d", tt.wantMalformed, len(result.Malformed))
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Admitted != tt.wantAdmitted {
				t.Errorf("expected %d admitted, got %d", tt.wantAdmitted, result.Admitted)
			}
			if result.Duplicates != tt.wantDuplicates {
				t.Errorf("expected %d duplicates, got %d", tt.wantDuplicates, result.Duplicates)
			}
			if len(result.Malformed) != tt.wantMalformed {
				t.Errorf("expected %d malformed rows, got %d", tt.wantMalformed, len(result.Malformed))
			}
			if len(result.Transactions) != tt.wantAdmitted {
				t.Errorf("expected %d transactions, got %d", tt.wantAdmitted, len(result.Transactions))
			}
			for _, txn := range result.Transactions {
				if txn.ID == "" {
					t.Error("admitted transaction has no id")
				}
			}
			if ledgerStore.Commits != 1 {
				t.Errorf("expected 1 commit, got %d", ledgerStore.Commits)
			}

			ledger, err := ledgerStore.Snapshot(context.Background())
			if err != nil {
				t.Fatalf("snapshot: %v", err)
			}
			wantLen := tt.wantAdmitted
			if tt.wantDuplicates > 0 {
				wantLen++ // the seeded row
			}
			if ledger.Len() != wantLen {
				t.Errorf("expected %d stored transactions, got %d", wantLen, ledger.Len())
			}
		})
	}
}

func TestImportUseCase_ReimportIsIdempotent(t *testing.T) {
	const statementCSV = "Date,Description,Amount\n" +
		"2025-01-05,SUPERMARKET,-42.50\n" +
		"2025-01-06,PAYCHECK,2000.00\n"

	ledgerStore := mocks.NewMockLedgerStore()
	accountStore := mocks.NewMockAccountStore()
	seedAccount(t, accountStore, "acc-1", "generic")
	uc := usecase.NewImportUseCase(ledgerStore, accountStore, mocks.NewMockRuleStore(), mocks.NewMockIDGenerator(), nil)

	first, err := uc.Import(context.Background(), usecase.ImportInput{AccountID: "acc-1", Source: csvSource(t, statementCSV)})
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	if first.Admitted != 2 || first.Duplicates != 0 {
		t.Fatalf("first import admitted %d, duplicates %d", first.Admitted, first.Duplicates)
	}

	second, err := uc.Import(context.Background(), usecase.ImportInput{AccountID: "acc-1", Source: csvSource(t, statementCSV)})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.Admitted != 0 {
		t.Errorf("expected 0 admitted on reimport, got %d", second.Admitted)
	}
	if second.Duplicates != 2 {
		t.Errorf("expected 2 duplicates on reimport, got %d", second.Duplicates)
	}

	ledger, _ := ledgerStore.Snapshot(context.Background())
	if ledger.Len() != 2 {
		t.Errorf("expected 2 stored transactions, got %d", ledger.Len())
	}
}

func TestImportUseCase_MultisetAdmitsRepeatedRows(t *testing.T) {
	// Two identical coffees on one day are two real purchases. A later
	// import with three only admits the third.
	twoCoffees := "Date,Description,Amount\n" +
		"2025-01-06,COFFEE SHOP,-4.50\n" +
		"2025-01-06,COFFEE SHOP,-4.50\n"
	threeCoffees := twoCoffees + "2025-01-06,COFFEE SHOP,-4.50\n"

	ledgerStore := mocks.NewMockLedgerStore()
	accountStore := mocks.NewMockAccountStore()
	seedAccount(t, accountStore, "acc-1", "generic")
	uc := usecase.NewImportUseCase(ledgerStore, accountStore, mocks.NewMockRuleStore(), mocks.NewMockIDGenerator(), nil)

	first, err := uc.Import(context.Background(), usecase.ImportInput{AccountID: "acc-1", Source: csvSource(t, twoCoffees)})
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	if first.Admitted != 2 {
		t.Fatalf("expected both coffees admitted, got %d", first.Admitted)
	}

	second, err := uc.Import(context.Background(), usecase.ImportInput{AccountID: "acc-1", Source: csvSource(t, threeCoffees)})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.Admitted != 1 {
		t.Errorf("expected only the third coffee admitted, got %d", second.Admitted)
	}
	if second.Duplicates != 2 {
		t.Errorf("expected 2 duplicates, got %d", second.Duplicates)
	}
}

func TestImportUseCase_RulesAutoCategorize(t *testing.T) {
	ledgerStore := mocks.NewMockLedgerStore()
	accountStore := mocks.NewMockAccountStore()
	ruleStore := mocks.NewMockRuleStore()
	seedAccount(t, accountStore, "acc-1", "generic")
	if err := ruleStore.Create(context.Background(), &domain.Rule{ID: "r-1", Pattern: "coffee", CategoryID: "cat-dining"}); err != nil {
		t.Fatalf("seed rule: %v", err)
	}

	uc := usecase.NewImportUseCase(ledgerStore, accountStore, ruleStore, mocks.NewMockIDGenerator(), nil)
	result, err := uc.Import(context.Background(), usecase.ImportInput{
		AccountID: "acc-1",
		Source: csvSource(t, "Date,Description,Amount\n"+
			"2025-01-06,COFFEE SHOP,-4.50\n"+
			"2025-01-07,HARDWARE STORE,-20.00\n"),
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.AutoCategorized != 1 {
		t.Errorf("expected 1 auto-categorized, got %d", result.AutoCategorized)
	}

	var categorized int
	for _, txn := range result.Transactions {
		if txn.CategoryID != nil && *txn.CategoryID == "cat-dining" {
			categorized++
		}
	}
	if categorized != 1 {
		t.Errorf("expected 1 transaction in cat-dining, got %d", categorized)
	}
}

func TestImportUseCase_ImportBatch(t *testing.T) {
	ledgerStore := mocks.NewMockLedgerStore()
	accountStore := mocks.NewMockAccountStore()
	seedAccount(t, accountStore, "acc-1", "generic")
	seedAccount(t, accountStore, "acc-2", "generic")
	uc := usecase.NewImportUseCase(ledgerStore, accountStore, mocks.NewMockRuleStore(), mocks.NewMockIDGenerator(), nil)

	result, err := uc.ImportBatch(context.Background(), usecase.ImportBatchInput{
		Files: []usecase.ImportFile{
			{AccountID: "acc-1", Source: csvSource(t, "Date,Description,Amount\n2025-01-05,SUPERMARKET,-42.50\n")},
			{AccountID: "acc-2", Source: csvSource(t, "Date,Description,Amount\n2025-01-05,SUPERMARKET,-42.50\n")},
			// Same account and rows as the first file: in-batch overlap
			// dedups exactly like overlap with stored rows.
			{AccountID: "acc-1", Source: csvSource(t, "Date,Description,Amount\n2025-01-05,SUPERMARKET,-42.50\n")},
		},
	})
	if err != nil {
		t.Fatalf("import batch: %v", err)
	}

	// The same row on different accounts is not a duplicate.
	if result.Admitted != 2 {
		t.Errorf("expected 2 admitted, got %d", result.Admitted)
	}
	if result.Duplicates != 1 {
		t.Errorf("expected 1 in-batch duplicate, got %d", result.Duplicates)
	}
	if ledgerStore.Commits != 1 {
		t.Errorf("expected a single commit for the batch, got %d", ledgerStore.Commits)
	}
}

func TestImportUseCase_EmptyBatch(t *testing.T) {
	ledgerStore := mocks.NewMockLedgerStore()
	uc := usecase.NewImportUseCase(ledgerStore, mocks.NewMockAccountStore(), mocks.NewMockRuleStore(), mocks.NewMockIDGenerator(), nil)

	result, err := uc.ImportBatch(context.Background(), usecase.ImportBatchInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Admitted != 0 || result.Duplicates != 0 || len(result.Malformed) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	if ledgerStore.Commits != 0 {
		t.Errorf("expected no commit, got %d", ledgerStore.Commits)
	}
}

func TestImportUseCase_InvalidatesTouchedMonths(t *testing.T) {
	ledgerStore := mocks.NewMockLedgerStore()
	accountStore := mocks.NewMockAccountStore()
	cache := mocks.NewMockReportCache()
	seedAccount(t, accountStore, "acc-1", "generic")
	uc := usecase.NewImportUseCase(ledgerStore, accountStore, mocks.NewMockRuleStore(), mocks.NewMockIDGenerator(), cache)

	_, err := uc.Import(context.Background(), usecase.ImportInput{
		AccountID: "acc-1",
		Source: csvSource(t, "Date,Description,Amount\n"+
			"2025-01-05,SUPERMARKET,-42.50\n"+
			"2025-02-01,RENT,-900.00\n"),
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	want := []domain.Month{{Year: 2025, Month: 1}, {Year: 2025, Month: 2}}
	if len(cache.Invalidated) != len(want) {
		t.Fatalf("expected %d invalidated months, got %v", len(want), cache.Invalidated)
	}
	for i, m := range want {
		if cache.Invalidated[i] != m {
			t.Errorf("invalidated[%d] = %s, want %s", i, cache.Invalidated[i], m)
		}
	}
}
