package domain

import "errors"

var (
	// Ledger errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateID         = errors.New("duplicate transaction id")

	// Statement errors
	ErrMalformedRow       = errors.New("malformed statement row")
	ErrUnknownInstitution = errors.New("unknown institution")
	ErrStrictImport       = errors.New("strict import rejected: statement has malformed rows")

	// Split errors
	ErrAlreadySplit     = errors.New("transaction is already split")
	ErrNotSplit         = errors.New("transaction is not split")
	ErrSplitChild       = errors.New("transaction is a split child")
	ErrEmptySplit       = errors.New("split requires at least one part")
	ErrSplitSumMismatch = errors.New("split amounts do not sum to parent amount")

	// Category errors
	ErrCategoryNotFound  = errors.New("category not found")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrDuplicateCategory = errors.New("category name already exists")

	// Account errors
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("account name already exists")

	// Rule errors
	ErrRuleNotFound = errors.New("rule not found")
)
