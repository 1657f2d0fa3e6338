package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/frank113/FinDash/internal/adapter/http/dto"
	"github.com/frank113/FinDash/tests/testutil"
)

// TestStatementToReportFlow walks the whole lifecycle one statement
// goes through: account setup, categories with goals, a payee rule,
// the CSV import with its dedup on re-import, a manual categorization,
// a split, and finally the month report and trend that everything
// feeds into.
func TestStatementToReportFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	stores := testutil.NewSQLiteStores(t)
	defer stores.Cleanup()
	router := newServer(stores, nil, nil)

	const statementCSV = "Date,Description,Amount\n" +
		"2025-01-03,WHOLEFDS MKT 10245,-82.45\n" +
		"2025-01-05,STARBUCKS STORE 123,-4.25\n" +
		"2025-01-05,STARBUCKS STORE 123,-4.25\n" +
		"2025-01-10,PAYROLL ACME CORP,2500.00\n" +
		"2025-01-12,COSTCO WHSE #44,-120.00\n"

	var (
		accountID   string
		groceriesID string
		diningID    string
		householdID string
		wholefdsID  string
		costcoID    string
	)

	t.Run("create account", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/accounts/", dto.CreateAccountRequest{
			Name:        "Everyday Checking",
			Institution: "generic",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var resp dto.AccountResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ID == "" {
			t.Error("expected account id to be set")
		}
		accountID = resp.ID
	})

	t.Run("create categories", func(t *testing.T) {
		groceriesGoal := int64(-30000)
		diningGoal := int64(-5000)

		cases := []struct {
			name string
			goal *int64
			dst  *string
		}{
			{"Groceries", &groceriesGoal, &groceriesID},
			{"Dining", &diningGoal, &diningID},
			{"Household", nil, &householdID},
		}
		for _, tc := range cases {
			w := doJSON(t, router, http.MethodPost, "/api/v1/categories/", dto.CreateCategoryRequest{
				Name:        tc.name,
				MonthlyGoal: tc.goal,
			})
			if w.Code != http.StatusCreated {
				t.Fatalf("expected 201 for %s, got %d: %s", tc.name, w.Code, w.Body.String())
			}

			var resp dto.CategoryResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			*tc.dst = resp.ID
		}
	})

	t.Run("create payee rule", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/rules/", dto.CreateRuleRequest{
			Pattern:    "STARBUCKS",
			CategoryID: diningID,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("import statement", func(t *testing.T) {
		w := importStatement(t, router, accountID, statementCSV, false)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp dto.ImportResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Admitted != 5 {
			t.Errorf("expected 5 admitted, got %d", resp.Admitted)
		}
		if resp.Duplicates != 0 {
			t.Errorf("expected 0 duplicates, got %d", resp.Duplicates)
		}
		if resp.AutoCategorized != 2 {
			t.Errorf("expected 2 auto-categorized, got %d", resp.AutoCategorized)
		}
		if len(resp.Malformed) != 0 {
			t.Errorf("expected no malformed rows, got %d", len(resp.Malformed))
		}
	})

	t.Run("reimport admits nothing", func(t *testing.T) {
		w := importStatement(t, router, accountID, statementCSV, false)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp dto.ImportResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Admitted != 0 {
			t.Errorf("expected 0 admitted, got %d", resp.Admitted)
		}
		if resp.Duplicates != 5 {
			t.Errorf("expected 5 duplicates, got %d", resp.Duplicates)
		}
	})

	t.Run("list transactions", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/transactions/?month=2025-01", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp dto.ListTransactionsResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Total != 5 {
			t.Fatalf("expected 5 transactions, got %d", resp.Total)
		}

		for _, txn := range resp.Transactions {
			switch txn.Description {
			case "WHOLEFDS MKT 10245":
				wholefdsID = txn.ID
				if txn.Amount != -8245 {
					t.Errorf("expected amount -8245, got %d", txn.Amount)
				}
				if txn.Date != "2025-01-03" {
					t.Errorf("expected date 2025-01-03, got %s", txn.Date)
				}
			case "COSTCO WHSE #44":
				costcoID = txn.ID
				if txn.Amount != -12000 {
					t.Errorf("expected amount -12000, got %d", txn.Amount)
				}
			case "STARBUCKS STORE 123":
				if txn.CategoryID == nil || *txn.CategoryID != diningID {
					t.Errorf("expected starbucks row auto-categorized as dining")
				}
			}
		}
		if wholefdsID == "" || costcoID == "" {
			t.Fatal("expected to find the wholefds and costco rows")
		}
	})

	t.Run("categorize transaction", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/v1/transactions/"+wholefdsID+"/category", dto.CategorizeRequest{
			CategoryID: &groceriesID,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp dto.TransactionResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.CategoryID == nil || *resp.CategoryID != groceriesID {
			t.Error("expected category to be assigned")
		}
	})

	t.Run("split transaction", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/transactions/"+costcoID+"/split", dto.SplitRequest{
			Parts: []dto.SplitPartRequest{
				{CategoryID: groceriesID, Amount: -9000},
				{CategoryID: householdID, Amount: -3000},
			},
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var resp dto.SplitResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Children) != 2 {
			t.Fatalf("expected 2 children, got %d", len(resp.Children))
		}
		for _, c := range resp.Children {
			if c.ParentID == nil || *c.ParentID != costcoID {
				t.Error("expected child to reference parent")
			}
			if c.Date != "2025-01-12" {
				t.Errorf("expected child to inherit parent date, got %s", c.Date)
			}
		}
	})

	t.Run("month report", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/reports/2025-01", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp dto.BudgetReportResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Month != "2025-01" {
			t.Errorf("expected month 2025-01, got %s", resp.Month)
		}
		if len(resp.Lines) != 3 {
			t.Fatalf("expected 3 lines, got %d", len(resp.Lines))
		}

		// Lines come back sorted by name.
		dining, groceries, household := resp.Lines[0], resp.Lines[1], resp.Lines[2]

		if dining.Name != "Dining" || dining.Actual != -850 {
			t.Errorf("expected Dining at -850, got %s at %d", dining.Name, dining.Actual)
		}
		if dining.Delta == nil || *dining.Delta != 4150 {
			t.Errorf("expected Dining delta 4150, got %v", dining.Delta)
		}

		// Groceries counts the wholefds row plus the costco split part;
		// the split parent itself stays out of the sums.
		if groceries.Name != "Groceries" || groceries.Actual != -17245 {
			t.Errorf("expected Groceries at -17245, got %s at %d", groceries.Name, groceries.Actual)
		}
		if groceries.Goal == nil || *groceries.Goal != -30000 {
			t.Errorf("expected Groceries goal -30000, got %v", groceries.Goal)
		}
		if groceries.Delta == nil || *groceries.Delta != 12755 {
			t.Errorf("expected Groceries delta 12755, got %v", groceries.Delta)
		}

		if household.Name != "Household" || household.Actual != -3000 {
			t.Errorf("expected Household at -3000, got %s at %d", household.Name, household.Actual)
		}
		if household.Goal != nil || household.Delta != nil {
			t.Error("expected Household to carry no goal or delta")
		}

		// The payroll deposit is the only uncategorized row left.
		if resp.Uncategorized != 250000 {
			t.Errorf("expected uncategorized 250000, got %d", resp.Uncategorized)
		}
		if resp.Total != 228905 {
			t.Errorf("expected total 228905, got %d", resp.Total)
		}
	})

	t.Run("unsplit restores parent", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/transactions/"+costcoID+"/unsplit", nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
		}

		w = doJSON(t, router, http.MethodGet, "/api/v1/reports/2025-01", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp dto.BudgetReportResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		// The costco row aggregates whole again: household drops off
		// (no goal, no spend) and the amount lands uncategorized.
		if len(resp.Lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(resp.Lines))
		}
		if resp.Lines[1].Name != "Groceries" || resp.Lines[1].Actual != -8245 {
			t.Errorf("expected Groceries back at -8245, got %s at %d", resp.Lines[1].Name, resp.Lines[1].Actual)
		}
		if resp.Uncategorized != 238000 {
			t.Errorf("expected uncategorized 238000, got %d", resp.Uncategorized)
		}
		if resp.Total != 228905 {
			t.Errorf("expected total 228905, got %d", resp.Total)
		}
	})

	t.Run("trend", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/reports/trend?from=2024-12&to=2025-02", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp dto.TrendResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Months) != 3 {
			t.Fatalf("expected 3 months, got %d", len(resp.Months))
		}

		want := []string{"2024-12", "2025-01", "2025-02"}
		for i, m := range resp.Months {
			if m.Month != want[i] {
				t.Errorf("expected month %s at position %d, got %s", want[i], i, m.Month)
			}
		}
		if resp.Months[0].Total != 0 {
			t.Errorf("expected empty december, got total %d", resp.Months[0].Total)
		}
		if resp.Months[1].Total != 228905 {
			t.Errorf("expected january total 228905, got %d", resp.Months[1].Total)
		}
	})
}
