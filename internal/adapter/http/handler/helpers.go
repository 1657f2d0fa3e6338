package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/frank113/FinDash/internal/adapter/http/dto"
	"github.com/frank113/FinDash/internal/domain"
)

// writeJSON writes data as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError picks the HTTP status for a domain error.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrRuleNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrDuplicateAccount),
		errors.Is(err, domain.ErrDuplicateCategory),
		errors.Is(err, domain.ErrAlreadySplit),
		errors.Is(err, domain.ErrNotSplit),
		errors.Is(err, domain.ErrSplitChild):
		return http.StatusConflict

	case errors.Is(err, domain.ErrSplitSumMismatch),
		errors.Is(err, domain.ErrStrictImport):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrInvalidAccountName),
		errors.Is(err, domain.ErrInvalidCategoryName),
		errors.Is(err, domain.ErrInvalidPattern),
		errors.Is(err, domain.ErrInvalidMonth),
		errors.Is(err, domain.ErrInvalidMonthRange),
		errors.Is(err, domain.ErrUnknownInstitution),
		errors.Is(err, domain.ErrUnknownCategory),
		errors.Is(err, domain.ErrEmptySplit),
		errors.Is(err, domain.ErrMalformedRow):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery reads an integer query parameter, falling back when the
// value is absent or not a number.
func parseIntQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// parseAccountsQuery splits the comma-separated accounts filter. Empty
// means all accounts.
func parseAccountsQuery(r *http.Request) []string {
	raw := r.URL.Query().Get("accounts")
	if raw == "" {
		return nil
	}

	var accounts []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			accounts = append(accounts, part)
		}
	}
	return accounts
}
