package domain

import (
	"fmt"
	"sort"
)

// CategorySpend is one category's line in a month report. Delta is
// Actual - Goal and is nil for untracked categories. Amounts keep the
// ledger sign convention (expenses negative), so on an expense category
// a positive delta means under budget and a negative one over.
type CategorySpend struct {
	CategoryID string
	Name       string
	Actual     int64
	Goal       *int64
	Delta      *int64
}

// BudgetReport is the per-category actual-vs-goal picture for one month
// over a set of accounts. Uncategorized spend is surfaced as its own
// bucket rather than folded into a line: it is budgeting work the user
// still owes. Total is the sum of every aggregated transaction amount,
// lines and uncategorized bucket together.
type BudgetReport struct {
	Month         Month
	Accounts      []string
	Lines         []CategorySpend
	Uncategorized int64
	Total         int64
}

// Aggregate computes the budget report for one month. Split parents are
// excluded in favor of their children; everything else whose date falls
// in the month and whose account is in the set (empty set means all
// accounts) is grouped by category and summed. Categories with a goal
// appear even with zero spend, so untouched budget lines still show.
func Aggregate(l *Ledger, month Month, accounts []string, categories []*Category) *BudgetReport {
	report := &BudgetReport{Month: month, Accounts: accounts}

	wanted := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		wanted[a] = true
	}

	byID := make(map[string]*Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	actuals := make(map[string]int64)
	for _, t := range l.All() {
		if !t.Countable() {
			continue
		}
		if len(wanted) > 0 && !wanted[t.AccountID] {
			continue
		}
		if !month.Contains(t.Date) {
			continue
		}
		report.Total += t.Amount
		if t.CategoryID == nil {
			report.Uncategorized += t.Amount
			continue
		}
		actuals[*t.CategoryID] += t.Amount
	}

	for _, c := range categories {
		actual, spent := actuals[c.ID]
		if !spent && !c.Tracked() {
			continue
		}
		line := CategorySpend{CategoryID: c.ID, Name: c.Name, Actual: actual, Goal: c.MonthlyGoal}
		if c.MonthlyGoal != nil {
			delta := actual - *c.MonthlyGoal
			line.Delta = &delta
		}
		report.Lines = append(report.Lines, line)
		delete(actuals, c.ID)
	}

	// Spend referencing a category id the category table no longer
	// knows about is still spend; keep it visible under the raw id.
	for id, actual := range actuals {
		report.Lines = append(report.Lines, CategorySpend{CategoryID: id, Name: id, Actual: actual})
	}

	sort.Slice(report.Lines, func(i, j int) bool { return report.Lines[i].Name < report.Lines[j].Name })
	return report
}

// Trend aggregates every month from 'from' through 'to' inclusive,
// producing the time-ordered series behavioral analytics are built on.
func Trend(l *Ledger, from, to Month, accounts []string, categories []*Category) ([]*BudgetReport, error) {
	if from.After(to) {
		return nil, fmt.Errorf("%w: %s is after %s", ErrInvalidMonthRange, from, to)
	}

	out := make([]*BudgetReport, 0, MonthsBetween(from, to))
	for m := from; !m.After(to); m = m.Next() {
		out = append(out, Aggregate(l, m, accounts, categories))
	}
	return out, nil
}
