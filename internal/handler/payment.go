package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/loanbuddy/loan-tracker/internal/domain"
	"github.com/loanbuddy/loan-tracker/pkg/response"
)

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.Store.Payments())
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	payment, ok := h.service.Store.Payment(id)
	if !ok {
		response.NotFound(w, "Payment not found")
		return
	}
	response.Success(w, payment)
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePaymentRequest
	if err := h.decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid payment data", err)
		return
	}

	payment, err := h.service.Store.CreatePayment(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	h.service.InvalidateMetrics(r.Context())
	response.Created(w, payment)
}

func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req domain.UpdatePaymentRequest
	if err := h.decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid payment data", err)
		return
	}

	payment, err := h.service.Store.UpdatePayment(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}

	h.service.InvalidateMetrics(r.Context())
	response.Success(w, payment)
}

func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.Store.DeletePayment(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	h.service.InvalidateMetrics(r.Context())
	response.NoContent(w)
}
