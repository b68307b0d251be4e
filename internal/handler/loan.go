package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/loanbuddy/loan-tracker/internal/domain"
	"github.com/loanbuddy/loan-tracker/pkg/response"
)

func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.Store.Loans())
}

func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	loan, ok := h.service.Store.Loan(id)
	if !ok {
		response.NotFound(w, "Loan not found")
		return
	}
	response.Success(w, loan)
}

func (h *Handler) GetLoanMetrics(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	metrics, ok := h.service.Store.LoanMetrics(id)
	if !ok {
		response.NotFound(w, "Loan not found")
		return
	}
	response.Success(w, metrics)
}

func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLoanRequest
	if err := h.decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid loan data", err)
		return
	}

	loan, err := h.service.Store.CreateLoan(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	h.service.InvalidateMetrics(r.Context())
	response.Created(w, loan)
}

func (h *Handler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req domain.UpdateLoanRequest
	if err := h.decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid loan data", err)
		return
	}

	loan, err := h.service.Store.UpdateLoan(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}

	h.service.InvalidateMetrics(r.Context())
	response.Success(w, loan)
}

func (h *Handler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.Store.DeleteLoan(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	h.service.InvalidateMetrics(r.Context())
	response.NoContent(w)
}

func (h *Handler) ListLoanPayments(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, ok := h.service.Store.Loan(id); !ok {
		response.NotFound(w, "Loan not found")
		return
	}
	response.Success(w, h.service.Store.PaymentsByLoan(id))
}

func (h *Handler) ListOverdueLoans(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.OverdueLoans())
}

func (h *Handler) ListUpcomingDueLoans(w http.ResponseWriter, r *http.Request) {
	horizon := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.BadRequest(w, "Invalid days parameter", err)
			return
		}
		horizon = parsed
	}

	response.Success(w, h.service.UpcomingDueLoans(horizon))
}
