package domain

import (
	"strings"
	"time"
)

// Rule assigns a category to imported transactions whose description
// contains Pattern, matched case-insensitively. Rules only ever touch
// uncategorized transactions.
type Rule struct {
	ID         string
	Pattern    string
	CategoryID string
	CreatedAt  time.Time
}

// Matches reports whether the rule applies to a raw description.
func (r *Rule) Matches(rawDescription string) bool {
	return strings.Contains(strings.ToLower(rawDescription), strings.ToLower(r.Pattern))
}

// ApplyRules categorizes every uncategorized transaction matched by a
// rule, first matching rule wins. Returns the number categorized.
func ApplyRules(rules []*Rule, txns []*Transaction) int {
	if len(rules) == 0 {
		return 0
	}

	applied := 0
	for _, t := range txns {
		if t.CategoryID != nil {
			continue
		}
		for _, r := range rules {
			if r.Matches(t.RawDescription) {
				categoryID := r.CategoryID
				t.CategoryID = &categoryID
				applied++
				break
			}
		}
	}
	return applied
}
