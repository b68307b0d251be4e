package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanbuddy/loan-tracker/internal/config"
	"github.com/loanbuddy/loan-tracker/internal/domain"
	"github.com/loanbuddy/loan-tracker/internal/repository"
	"github.com/loanbuddy/loan-tracker/internal/service"
	"github.com/loanbuddy/loan-tracker/internal/store"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	cfg := &config.Config{}
	cfg.Business.GraceThresholdDays = 5
	cfg.Business.MarkPaidOnPayment = true
	cfg.Business.UpcomingDueHorizonDays = 7
	cfg.Business.DefaultFrequency = domain.FrequencyMonthly
	cfg.Business.DefaultInstallments = 12
	cfg.Business.DefaultInterestRate = "5"
	cfg.Business.Currency = "R$"

	portfolio, err := store.New(context.Background(), repository.NewMemoryPersistence(), store.Options{
		GraceThresholdDays: cfg.Business.GraceThresholdDays,
		MarkPaidOnPayment:  cfg.Business.MarkPaidOnPayment,
		DefaultSettings:    cfg.DefaultSettings(),
	})
	require.NoError(t, err)

	h := NewHandler(service.NewPortfolioService(portfolio, nil, cfg))

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/borrowers", h.ListBorrowers).Methods("GET")
	api.HandleFunc("/borrowers", h.CreateBorrower).Methods("POST")
	api.HandleFunc("/borrowers/{id}", h.DeleteBorrower).Methods("DELETE")
	api.HandleFunc("/loans", h.CreateLoan).Methods("POST")
	api.HandleFunc("/loans/{id}", h.GetLoan).Methods("GET")
	api.HandleFunc("/loans/{id}/metrics", h.GetLoanMetrics).Methods("GET")
	api.HandleFunc("/payments", h.CreatePayment).Methods("POST")
	api.HandleFunc("/dashboard", h.GetDashboard).Methods("GET")
	api.HandleFunc("/export", h.ExportData).Methods("GET")
	api.HandleFunc("/import", h.ImportData).Methods("POST")
	return router
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func TestBorrowerLoanPaymentFlow(t *testing.T) {
	router := newTestRouter(t)

	// create borrower
	rec, env := doJSON(t, router, "POST", "/api/borrowers", map[string]string{"name": "Ana"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var borrower domain.Borrower
	require.NoError(t, json.Unmarshal(env.Data, &borrower))
	assert.Equal(t, "Ana", borrower.Name)

	// create loan for her
	rec, env = doJSON(t, router, "POST", "/api/loans", map[string]interface{}{
		"borrower_id": borrower.ID,
		"principal":   "1000",
		"issue_date":  time.Now().UTC().Format(time.RFC3339),
		"due_date":    time.Now().UTC().AddDate(0, 0, 30).Format(time.RFC3339),
		"frequency":   "monthly",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var loan domain.Loan
	require.NoError(t, json.Unmarshal(env.Data, &loan))
	assert.Equal(t, domain.LoanStatusActive, loan.Status)
	assert.Equal(t, "Ana", loan.BorrowerName)

	// borrower now has loans, deletion is a conflict
	rec, _ = doJSON(t, router, "DELETE", "/api/borrowers/"+borrower.ID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// record full payment
	rec, _ = doJSON(t, router, "POST", "/api/payments", map[string]interface{}{
		"loan_id": loan.ID,
		"date":    time.Now().UTC().Format(time.RFC3339),
		"amount":  "1000",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// loan is paid with zero balance
	rec, env = doJSON(t, router, "GET", "/api/loans/"+loan.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &loan))
	assert.Equal(t, domain.LoanStatusPaid, loan.Status)

	rec, env = doJSON(t, router, "GET", "/api/loans/"+loan.ID+"/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var metrics domain.LoanMetrics
	require.NoError(t, json.Unmarshal(env.Data, &metrics))
	assert.True(t, metrics.RemainingBalance.IsZero())

	// dashboard reflects the portfolio
	rec, env = doJSON(t, router, "GET", "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dashboard domain.DashboardMetrics
	require.NoError(t, json.Unmarshal(env.Data, &dashboard))
	assert.Equal(t, 1, dashboard.TotalBorrowers)
	assert.Equal(t, 1, dashboard.PaidLoanCount)
}

func TestCreateLoanValidation(t *testing.T) {
	router := newTestRouter(t)

	// missing borrower_id fails validation
	rec, _ := doJSON(t, router, "POST", "/api/loans", map[string]interface{}{
		"principal": "1000",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown borrower is a 404
	rec, _ = doJSON(t, router, "POST", "/api/loans", map[string]interface{}{
		"borrower_id": "ghost",
		"principal":   "1000",
		"issue_date":  time.Now().UTC().Format(time.RFC3339),
		"due_date":    time.Now().UTC().AddDate(0, 0, 30).Format(time.RFC3339),
		"frequency":   "monthly",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportImportRoundTripOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, "POST", "/api/borrowers", map[string]string{"name": "Ana"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var borrower domain.Borrower
	require.NoError(t, json.Unmarshal(env.Data, &borrower))

	rec, _ = doJSON(t, router, "GET", "/api/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	exported := rec.Body.String()
	assert.Contains(t, exported, "[BORROWERS]")

	req := httptest.NewRequest("POST", "/api/import", bytes.NewBufferString(exported))
	importRec := httptest.NewRecorder()
	router.ServeHTTP(importRec, req)
	require.Equal(t, http.StatusOK, importRec.Code, importRec.Body.String())

	rec, env = doJSON(t, router, "GET", "/api/borrowers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var borrowers []domain.Borrower
	require.NoError(t, json.Unmarshal(env.Data, &borrowers))
	require.Len(t, borrowers, 1)
	assert.Equal(t, borrower.ID, borrowers[0].ID)
}

func TestImportRejectsMalformedDocument(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("POST", "/api/import", bytes.NewBufferString("not a sectioned csv"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
