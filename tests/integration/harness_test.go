package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	adaptershttp "github.com/frank113/FinDash/internal/adapter/http"
	"github.com/frank113/FinDash/internal/adapter/http/handler"
	"github.com/frank113/FinDash/internal/usecase"
	"github.com/frank113/FinDash/tests/testutil"
)

// newServer wires the full HTTP stack over the given stores the same
// way cmd/server does. Metrics are left out so each test can build as
// many routers as it likes; cache and idem may be nil.
func newServer(stores *testutil.Stores, cache usecase.ReportCache, idem usecase.IdempotencyStore) http.Handler {
	accountUC := usecase.NewAccountUseCase(stores.Accounts, stores.IDGen)
	categoryUC := usecase.NewCategoryUseCase(stores.Categories, stores.Rules, stores.Ledger, stores.IDGen, cache)
	ruleUC := usecase.NewRuleUseCase(stores.Rules, stores.Categories, stores.IDGen)
	importUC := usecase.NewImportUseCase(stores.Ledger, stores.Accounts, stores.Rules, stores.IDGen, cache)
	transactionUC := usecase.NewTransactionUseCase(stores.Ledger, stores.Categories, cache)
	splitUC := usecase.NewSplitUseCase(stores.Ledger, stores.Categories, stores.IDGen, cache)
	reportUC := usecase.NewReportUseCase(stores.Ledger, stores.Categories, cache)

	return adaptershttp.NewRouter(adaptershttp.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC, nil),
		ImportHandler:      handler.NewImportHandler(importUC, false, nil),
		TransactionHandler: handler.NewTransactionHandler(transactionUC, splitUC, nil),
		CategoryHandler:    handler.NewCategoryHandler(categoryUC, nil),
		RuleHandler:        handler.NewRuleHandler(ruleUC, nil),
		ReportHandler:      handler.NewReportHandler(reportUC, nil),
		HealthHandler:      handler.NewHealthHandler(),
		Logger:             zerolog.Nop(),
		IdempotencyStore:   idem,
	})
}

// importStatement uploads one CSV through the import endpoint and
// returns the recorder for the caller to inspect.
func importStatement(t *testing.T, router http.Handler, accountID, csvBody string, strict bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("account_id", accountID); err != nil {
		t.Fatalf("failed to write account_id field: %v", err)
	}
	if strict {
		if err := mw.WriteField("strict", "true"); err != nil {
			t.Fatalf("failed to write strict field: %v", err)
		}
	}
	part, err := mw.CreateFormFile("file", "statement.csv")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := io.WriteString(part, csvBody); err != nil {
		t.Fatalf("failed to write statement body: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// doJSON sends a JSON request through the router. A nil body sends no
// payload.
func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
