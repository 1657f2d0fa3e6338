package domain

import "time"

// Category is a budget bucket transactions are assigned to. MonthlyGoal
// is in minor units with the ledger's sign convention, so an expense
// budget is negative (goal -50000 means "spend at most 500.00"). A nil
// goal means the category is untracked.
type Category struct {
	ID          string
	Name        string
	MonthlyGoal *int64
	CreatedAt   time.Time
}

// Tracked reports whether the category has a monthly goal configured.
func (c *Category) Tracked() bool {
	return c.MonthlyGoal != nil
}
