package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/frank113/FinDash/internal/adapter/http/dto"
	"github.com/frank113/FinDash/internal/domain"
	"github.com/frank113/FinDash/internal/infrastructure/metrics"
	"github.com/frank113/FinDash/internal/usecase"
)

// TransactionService defines the read and categorize behavior needed by
// TransactionHandler.
type TransactionService interface {
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, int, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	Categorize(ctx context.Context, transactionID string, categoryID *string) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// SplitService defines the split behavior needed by TransactionHandler.
type SplitService interface {
	Split(ctx context.Context, input usecase.SplitInput) ([]*domain.Transaction, error)
	UndoSplit(ctx context.Context, transactionID string) error
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	transactionUC TransactionService
	splitUC       SplitService
	metrics       *metrics.Metrics
}

// NewTransactionHandler creates a new TransactionHandler. m may be nil.
func NewTransactionHandler(transactionUC TransactionService, splitUC SplitService, m *metrics.Metrics) *TransactionHandler {
	return &TransactionHandler{
		transactionUC: transactionUC,
		splitUC:       splitUC,
		metrics:       m,
	}
}

// List lists transactions with optional filters.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListTransactionsInput{
		AccountID:  r.URL.Query().Get("account_id"),
		CategoryID: r.URL.Query().Get("category_id"),
		Limit:      parseIntQuery(r, "limit", 0),
		Offset:     parseIntQuery(r, "offset", 0),
	}

	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err := domain.ParseMonth(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid month filter", err.Error())
			return
		}
		input.Month = &month
	}

	if raw := r.URL.Query().Get("uncategorized"); raw == "true" || raw == "1" {
		input.Uncategorized = true
	}

	txns, total, err := h.transactionUC.ListTransactions(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(txns),
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	})
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	txn, err := h.transactionUC.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Delete removes a transaction. Deleting a split parent removes its
// children with it; deleting a single child is rejected.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.transactionUC.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete transaction", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Split divides a transaction across categories.
func (h *TransactionHandler) Split(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.SplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	children, err := h.splitUC.Split(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to split transaction", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.SplitsCreated.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.SplitResponse{
		Children: dto.TransactionsFromDomain(children),
	})
}

// Unsplit removes a transaction's children and restores it to
// aggregation.
func (h *TransactionHandler) Unsplit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.splitUC.UndoSplit(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to unsplit transaction", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.SplitsUndone.Inc()
	}

	w.WriteHeader(http.StatusNoContent)
}

// Categorize assigns or clears a transaction's category.
func (h *TransactionHandler) Categorize(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.CategorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.transactionUC.Categorize(r.Context(), id, req.CategoryID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to categorize transaction", err.Error())
		return
	}

	if h.metrics != nil {
		action := "assign"
		if req.CategoryID == nil {
			action = "clear"
		}
		h.metrics.Categorized.WithLabelValues(action).Inc()
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}
