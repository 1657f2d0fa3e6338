package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors
var (
	ErrInvalidAccountName  = errors.New("invalid account name")
	ErrInvalidCategoryName = errors.New("invalid category name")
	ErrInvalidPattern      = errors.New("invalid rule pattern")
	ErrInvalidMonth        = errors.New("invalid month")
	ErrInvalidMonthRange   = errors.New("invalid month range")
)

// Validation constants
const (
	MaxNameLength    = 255
	MaxPatternLength = 128
	MaxTrendMonths   = 120 // ten years of history per trend query
)

// ValidateAccountName validates an account display name.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxNameLength)
	}
	return nil
}

// ValidateCategoryName validates a category name.
func ValidateCategoryName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidCategoryName)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidCategoryName, MaxNameLength)
	}
	return nil
}

// ValidateRulePattern validates a payee rule pattern.
func ValidateRulePattern(pattern string) error {
	pattern = strings.TrimSpace(pattern)

	if pattern == "" {
		return fmt.Errorf("%w: pattern cannot be empty", ErrInvalidPattern)
	}
	if len(pattern) > MaxPatternLength {
		return fmt.Errorf("%w: pattern exceeds %d characters", ErrInvalidPattern, MaxPatternLength)
	}
	return nil
}

// ValidateMonthRange checks a trend query range.
func ValidateMonthRange(from, to Month) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: both ends required", ErrInvalidMonthRange)
	}
	if from.After(to) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidMonthRange, from, to)
	}
	if MonthsBetween(from, to) > MaxTrendMonths {
		return fmt.Errorf("%w: spans more than %d months", ErrInvalidMonthRange, MaxTrendMonths)
	}
	return nil
}

// ValidatePagination clamps pagination parameters to sane bounds.
func ValidatePagination(limit, offset int) (int, int) {
	const maxPageSize = 1000
	const defaultPageSize = 50

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
