package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/frank113/FinDash/internal/adapter/http/dto"
	"github.com/frank113/FinDash/internal/domain"
	"github.com/frank113/FinDash/internal/infrastructure/metrics"
	"github.com/frank113/FinDash/internal/statement"
	"github.com/frank113/FinDash/internal/usecase"
)

// maxStatementBytes bounds an uploaded statement file. Real exports are
// a few hundred kilobytes; 32 MiB is years of history.
const maxStatementBytes = 32 << 20

// ImportService defines the behavior needed by ImportHandler.
type ImportService interface {
	Import(ctx context.Context, input usecase.ImportInput) (*usecase.ImportResult, error)
}

// ImportHandler accepts statement uploads.
type ImportHandler struct {
	importUC      ImportService
	strictDefault bool
	metrics       *metrics.Metrics
}

// NewImportHandler creates a new ImportHandler. strictDefault applies
// when a request does not carry its own strict flag. m may be nil.
func NewImportHandler(importUC ImportService, strictDefault bool, m *metrics.Metrics) *ImportHandler {
	return &ImportHandler{importUC: importUC, strictDefault: strictDefault, metrics: m}
}

// Create imports one uploaded statement file into an account. The
// request is multipart: a `file` part with the CSV export, an
// `account_id` field and an optional `strict` flag.
func (h *ImportHandler) Create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := r.ParseMultipartForm(maxStatementBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request", err.Error())
		return
	}

	accountID := r.FormValue("account_id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account_id", "")
		return
	}

	strict := h.strictDefault
	if raw := r.FormValue("strict"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid strict flag", err.Error())
			return
		}
		strict = parsed
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing statement file", err.Error())
		return
	}
	defer file.Close()

	source, err := statement.NewCSVSource(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable statement", err.Error())
		return
	}

	result, err := h.importUC.Import(r.Context(), usecase.ImportInput{
		AccountID: accountID,
		Source:    source,
		Strict:    strict,
	})
	if err != nil {
		if h.metrics != nil {
			h.metrics.ImportsFailed.Inc()
		}

		// A strict refusal still carries the per-row report.
		if errors.Is(err, domain.ErrStrictImport) && result != nil {
			writeJSON(w, http.StatusUnprocessableEntity, dto.ImportFromResult(result))
			return
		}
		writeError(w, mapDomainError(err), "import failed", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.ImportsCompleted.Inc()
		h.metrics.ImportDuration.Observe(time.Since(start).Seconds())
		h.metrics.RowsAdmitted.Add(float64(result.Admitted))
		h.metrics.RowsDuplicate.Add(float64(result.Duplicates))
		h.metrics.RowsMalformed.Add(float64(len(result.Malformed)))
	}

	writeJSON(w, http.StatusOK, dto.ImportFromResult(result))
}
