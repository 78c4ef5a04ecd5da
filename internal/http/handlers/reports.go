package handlers

import (
	"net/http"
	"strings"

	"workshop-backoffice-service/internal/reports"
	"workshop-backoffice-service/internal/store"
	"workshop-backoffice-service/pkg/response"
)

func (h *Handler) reportFilter(r *http.Request) store.TicketFilter {
	return store.TicketFilter{
		From: strings.TrimSpace(r.URL.Query().Get("from")),
		To:   strings.TrimSpace(r.URL.Query().Get("to")),
	}
}

func (h *Handler) ReportsSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.Store.SummaryRows(ctx, h.reportFilter(r))
	if err != nil {
		h.Logger.Error("summary rows query failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute summary")
		return
	}

	response.Success(w, map[string]any{"summary": reports.Summarize(rows)})
}

func (h *Handler) ReportsRevenueByWorker(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.Store.SummaryRows(ctx, h.reportFilter(r))
	if err != nil {
		h.Logger.Error("summary rows query failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute revenue")
		return
	}

	response.Success(w, map[string]any{"workers": reports.RevenueByWorker(rows)})
}
