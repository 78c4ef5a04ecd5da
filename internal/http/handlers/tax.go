package handlers

import (
	"encoding/json"
	"net/http"

	"workshop-backoffice-service/internal/taxperiod"
	"workshop-backoffice-service/pkg/response"
)

func (h *Handler) TaxKpi(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kpi, err := h.Tracker.ComputeKpi(ctx)
	if err != nil {
		h.Logger.Error("tax kpi computation failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute tax KPI")
		return
	}

	response.Success(w, map[string]any{"kpi": kpi})
}

func (h *Handler) TaxPeriodReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	window, err := h.Tracker.ResetToToday(ctx)
	if err != nil {
		h.Logger.Error("tax period reset failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to reset tax period")
		return
	}

	response.Success(w, map[string]any{"window": window})
}

func (h *Handler) TaxRateGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rate, usingDefault, err := h.Store.TaxRate(ctx, h.Config.DefaultTaxRate)
	if err != nil {
		h.Logger.Error("tax rate lookup failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read tax rate")
		return
	}

	source := taxperiod.SourceConfigured
	if usingDefault {
		source = taxperiod.SourceDefault
	}
	response.Success(w, map[string]any{"rate": rate, "source": source})
}

type taxRateUpdateRequest struct {
	Rate float64 `json:"rate"`
}

func (h *Handler) TaxRateUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body taxRateUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if body.Rate <= 0 || body.Rate >= 1 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Rate must be between 0 and 1 exclusive")
		return
	}

	if err := h.Store.SetTaxRate(ctx, body.Rate); err != nil {
		h.Logger.Error("tax rate update failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update tax rate")
		return
	}

	response.Success(w, map[string]any{"rate": body.Rate, "source": taxperiod.SourceConfigured})
}
