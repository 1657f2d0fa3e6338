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

// RuleService defines the behavior needed by RuleHandler.
type RuleService interface {
	CreateRule(ctx context.Context, input usecase.CreateRuleInput) (*domain.Rule, error)
	ListRules(ctx context.Context) ([]*domain.Rule, error)
	DeleteRule(ctx context.Context, id string) error
}

// RuleHandler handles payee rule HTTP requests.
type RuleHandler struct {
	ruleUC  RuleService
	metrics *metrics.Metrics
}

// NewRuleHandler creates a new RuleHandler. m may be nil.
func NewRuleHandler(ruleUC RuleService, m *metrics.Metrics) *RuleHandler {
	return &RuleHandler{ruleUC: ruleUC, metrics: m}
}

// Create creates a new payee rule.
func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rule, err := h.ruleUC.CreateRule(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create rule", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.RulesCreated.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.RuleFromDomain(rule))
}

// List lists rules in the order imports apply them.
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	rules, err := h.ruleUC.ListRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rules", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListRulesResponse{
		Rules: dto.RulesFromDomain(rules),
		Total: len(rules),
	})
}

// Delete removes a rule. Already-imported transactions keep their
// category.
func (h *RuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.ruleUC.DeleteRule(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete rule", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
