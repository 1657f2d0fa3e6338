package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/frank113/FinDash/internal/adapter/http/dto"
	"github.com/frank113/FinDash/internal/domain"
	"github.com/frank113/FinDash/internal/infrastructure/metrics"
	"github.com/frank113/FinDash/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	MonthReport(ctx context.Context, input usecase.MonthReportInput) (*domain.BudgetReport, error)
	TrendReport(ctx context.Context, input usecase.TrendInput) ([]*domain.BudgetReport, error)
}

// ReportHandler serves budget reports.
type ReportHandler struct {
	reportUC ReportService
	metrics  *metrics.Metrics
}

// NewReportHandler creates a new ReportHandler. m may be nil.
func NewReportHandler(reportUC ReportService, m *metrics.Metrics) *ReportHandler {
	return &ReportHandler{reportUC: reportUC, metrics: m}
}

// Month serves the budget-vs-goal report for one month, optionally
// scoped to a comma-separated accounts filter.
func (h *ReportHandler) Month(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	month, err := domain.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month", err.Error())
		return
	}

	report, err := h.reportUC.MonthReport(r.Context(), usecase.MonthReportInput{
		Month:    month,
		Accounts: parseAccountsQuery(r),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build report", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.ReportsBuilt.Inc()
		h.metrics.ReportDuration.Observe(time.Since(start).Seconds())
	}

	writeJSON(w, http.StatusOK, dto.ReportFromDomain(report))
}

// Trend serves a time-ordered series of month reports between from and
// to inclusive.
func (h *ReportHandler) Trend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	from, err := domain.ParseMonth(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from month", err.Error())
		return
	}
	to, err := domain.ParseMonth(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to month", err.Error())
		return
	}

	reports, err := h.reportUC.TrendReport(r.Context(), usecase.TrendInput{
		From:     from,
		To:       to,
		Accounts: parseAccountsQuery(r),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build trend", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.ReportsBuilt.Inc()
		h.metrics.ReportDuration.Observe(time.Since(start).Seconds())
	}

	writeJSON(w, http.StatusOK, dto.TrendResponse{
		Months: dto.ReportsFromDomain(reports),
	})
}
