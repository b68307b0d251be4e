package handler

import (
	"io"
	"net/http"

	"github.com/loanbuddy/loan-tracker/internal/domain"
	"github.com/loanbuddy/loan-tracker/pkg/response"
)

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.DashboardMetrics(r.Context()))
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.Store.Settings())
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateSettingsRequest
	if err := h.decode(r, &req); err != nil {
		response.BadRequest(w, "Invalid settings data", err)
		return
	}

	settings, err := h.service.Store.UpdateSettings(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, settings)
}

// ExportData streams the portfolio as a sectioned CSV document.
func (h *Handler) ExportData(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Export()
	if err != nil {
		response.InternalServerError(w, "Export failed", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="loanbuddy_export.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, data)
}

// ImportData replaces the portfolio from an uploaded sectioned CSV
// document. Nothing is applied unless the whole document parses.
func (h *Handler) ImportData(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.BadRequest(w, "Unable to read import data", err)
		return
	}

	if err := h.service.Import(r.Context(), string(body)); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": "imported"})
}
