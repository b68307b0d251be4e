package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/loanbuddy/loan-tracker/internal/domain"
	"github.com/loanbuddy/loan-tracker/pkg/response"
)

func (h *Handler) ListBorrowers(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.Store.Borrowers())
}

func (h *Handler) GetBorrower(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	borrower, ok := h.service.Store.Borrower(id)
	if !ok {
		response.NotFound(w, "Borrower not found")
		return
	}
	response.Success(w, borrower)
}

func (h *Handler) CreateBorrower(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBorrowerRequest
	if err := h.decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid borrower data", err)
		return
	}

	borrower, err := h.service.Store.CreateBorrower(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	h.service.InvalidateMetrics(r.Context())
	response.Created(w, borrower)
}

func (h *Handler) UpdateBorrower(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req domain.UpdateBorrowerRequest
	if err := h.decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid borrower data", err)
		return
	}

	borrower, err := h.service.Store.UpdateBorrower(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}

	h.service.InvalidateMetrics(r.Context())
	response.Success(w, borrower)
}

func (h *Handler) DeleteBorrower(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.Store.DeleteBorrower(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	h.service.InvalidateMetrics(r.Context())
	response.NoContent(w)
}

func (h *Handler) ListBorrowerLoans(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, ok := h.service.Store.Borrower(id); !ok {
		response.NotFound(w, "Borrower not found")
		return
	}
	response.Success(w, h.service.Store.LoansByBorrower(id))
}
