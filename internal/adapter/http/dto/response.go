package dto

import (
	"time"

	"github.com/frank113/FinDash/internal/domain"
	"github.com/frank113/FinDash/internal/statement"
	"github.com/frank113/FinDash/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Institution string    `json:"institution"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Institution: a.Institution,
		CreatedAt:   a.CreatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse lists accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int                `json:"total"`
}

// InstitutionsResponse lists the registered statement schemas.
type InstitutionsResponse struct {
	Institutions []string `json:"institutions"`
}

// TransactionResponse represents a transaction in API responses. Dates
// are plain calendar days; amounts are minor units, expenses negative.
type TransactionResponse struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Date        string    `json:"date"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	CategoryID  *string   `json:"category_id,omitempty"`
	ParentID    *string   `json:"parent_id,omitempty"`
	Split       bool      `json:"split,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Date:        t.Date.String(),
		Amount:      t.Amount,
		Description: t.RawDescription,
		CategoryID:  t.CategoryID,
		ParentID:    t.ParentID,
		Split:       t.Split,
		CreatedAt:   t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse is one page of transactions.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int                    `json:"total"`
	Limit        int                    `json:"limit"`
	Offset       int                    `json:"offset"`
}

// SplitResponse returns the children created by a split.
type SplitResponse struct {
	Children []*TransactionResponse `json:"children"`
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MonthlyGoal *int64    `json:"monthly_goal,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryFromDomain converts domain category to response.
func CategoryFromDomain(c *domain.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		MonthlyGoal: c.MonthlyGoal,
		CreatedAt:   c.CreatedAt,
	}
}

// CategoriesFromDomain converts domain categories to responses.
func CategoriesFromDomain(categories []*domain.Category) []*CategoryResponse {
	result := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = CategoryFromDomain(c)
	}
	return result
}

// ListCategoriesResponse lists categories.
type ListCategoriesResponse struct {
	Categories []*CategoryResponse `json:"categories"`
	Total      int                 `json:"total"`
}

// RuleResponse represents a payee rule in API responses.
type RuleResponse struct {
	ID         string    `json:"id"`
	Pattern    string    `json:"pattern"`
	CategoryID string    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// RuleFromDomain converts domain rule to response.
func RuleFromDomain(r *domain.Rule) *RuleResponse {
	return &RuleResponse{
		ID:         r.ID,
		Pattern:    r.Pattern,
		CategoryID: r.CategoryID,
		CreatedAt:  r.CreatedAt,
	}
}

// RulesFromDomain converts domain rules to responses.
func RulesFromDomain(rules []*domain.Rule) []*RuleResponse {
	result := make([]*RuleResponse, len(rules))
	for i, r := range rules {
		result[i] = RuleFromDomain(r)
	}
	return result
}

// ListRulesResponse lists payee rules.
type ListRulesResponse struct {
	Rules []*RuleResponse `json:"rules"`
	Total int             `json:"total"`
}

// RowErrorResponse is one malformed statement row in an import report.
type RowErrorResponse struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportResponse reports what a statement import did.
type ImportResponse struct {
	Admitted        int                `json:"admitted"`
	Duplicates      int                `json:"duplicates"`
	AutoCategorized int                `json:"auto_categorized"`
	Malformed       []RowErrorResponse `json:"malformed"`
}

// ImportFromResult converts an import result to a response.
func ImportFromResult(result *usecase.ImportResult) *ImportResponse {
	resp := &ImportResponse{
		Admitted:        result.Admitted,
		Duplicates:      result.Duplicates,
		AutoCategorized: result.AutoCategorized,
		Malformed:       rowErrorsFromStatement(result.Malformed),
	}
	return resp
}

func rowErrorsFromStatement(rowErrs []*statement.RowError) []RowErrorResponse {
	result := make([]RowErrorResponse, len(rowErrs))
	for i, re := range rowErrs {
		result[i] = RowErrorResponse{
			Line:   re.Line,
			Reason: re.Err.Error(),
		}
	}
	return result
}

// CategoryLineResponse is one category's line in a month report.
type CategoryLineResponse struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Actual     int64  `json:"actual"`
	Goal       *int64 `json:"goal,omitempty"`
	Delta      *int64 `json:"delta,omitempty"`
}

// BudgetReportResponse is the budget-vs-goal picture for one month.
type BudgetReportResponse struct {
	Month         string                 `json:"month"`
	Accounts      []string               `json:"accounts,omitempty"`
	Lines         []CategoryLineResponse `json:"lines"`
	Uncategorized int64                  `json:"uncategorized"`
	Total         int64                  `json:"total"`
}

// ReportFromDomain converts a domain budget report to a response.
func ReportFromDomain(r *domain.BudgetReport) *BudgetReportResponse {
	lines := make([]CategoryLineResponse, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = CategoryLineResponse{
			CategoryID: l.CategoryID,
			Name:       l.Name,
			Actual:     l.Actual,
			Goal:       l.Goal,
			Delta:      l.Delta,
		}
	}
	return &BudgetReportResponse{
		Month:         r.Month.String(),
		Accounts:      r.Accounts,
		Lines:         lines,
		Uncategorized: r.Uncategorized,
		Total:         r.Total,
	}
}

// ReportsFromDomain converts a trend series to responses.
func ReportsFromDomain(reports []*domain.BudgetReport) []*BudgetReportResponse {
	result := make([]*BudgetReportResponse, len(reports))
	for i, r := range reports {
		result[i] = ReportFromDomain(r)
	}
	return result
}

// TrendResponse is a time-ordered series of month reports.
type TrendResponse struct {
	Months []*BudgetReportResponse `json:"months"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
