package dto

import (
	"github.com/frank113/FinDash/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name        string `json:"name"`
	Institution string `json:"institution"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:        r.Name,
		Institution: r.Institution,
	}
}

// CreateCategoryRequest represents a request to create a category.
// MonthlyGoal is in minor units with the ledger sign convention, so an
// expense budget is negative.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	MonthlyGoal *int64 `json:"monthly_goal,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCategoryRequest) ToUseCaseInput() usecase.CreateCategoryInput {
	return usecase.CreateCategoryInput{
		Name:        r.Name,
		MonthlyGoal: r.MonthlyGoal,
	}
}

// UpdateCategoryRequest represents a partial category update. Omitted
// fields are left alone; clear_goal removes the goal entirely.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	MonthlyGoal *int64  `json:"monthly_goal,omitempty"`
	ClearGoal   bool    `json:"clear_goal,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCategoryRequest) ToUseCaseInput() usecase.UpdateCategoryInput {
	return usecase.UpdateCategoryInput{
		Name:        r.Name,
		MonthlyGoal: r.MonthlyGoal,
		ClearGoal:   r.ClearGoal,
	}
}

// CreateRuleRequest represents a request to create a payee rule.
type CreateRuleRequest struct {
	Pattern    string `json:"pattern"`
	CategoryID string `json:"category_id"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateRuleRequest) ToUseCaseInput() usecase.CreateRuleInput {
	return usecase.CreateRuleInput{
		Pattern:    r.Pattern,
		CategoryID: r.CategoryID,
	}
}

// SplitRequest represents a request to split a transaction.
type SplitRequest struct {
	Parts []SplitPartRequest `json:"parts"`
}

// SplitPartRequest is one category's share of a split.
type SplitPartRequest struct {
	CategoryID string `json:"category_id"`
	Amount     int64  `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *SplitRequest) ToUseCaseInput(transactionID string) usecase.SplitInput {
	parts := make([]usecase.SplitPart, len(r.Parts))
	for i, p := range r.Parts {
		parts[i] = usecase.SplitPart{
			CategoryID: p.CategoryID,
			Amount:     p.Amount,
		}
	}
	return usecase.SplitInput{
		TransactionID: transactionID,
		Parts:         parts,
	}
}

// CategorizeRequest assigns a category to a transaction. A null
// category_id returns the transaction to the uncategorized bucket.
type CategorizeRequest struct {
	CategoryID *string `json:"category_id"`
}
