package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"

	"workshop-backoffice-service/internal/auth"
	"workshop-backoffice-service/internal/store"
	"workshop-backoffice-service/internal/validate"
	"workshop-backoffice-service/pkg/response"
)

type workerCreateRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Position    string `json:"position"`
	BadgeNumber *int64 `json:"badgeNumber"`
	Password    string `json:"password"`
}

type workerUpdateRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Position    *string `json:"position"`
	BadgeNumber *int64  `json:"badgeNumber"`
	NewPassword *string `json:"newPassword"`
	Active      *bool   `json:"active"`
}

func (h *Handler) WorkersList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	includeInactive := strings.EqualFold(r.URL.Query().Get("includeInactive"), "true")

	workers, err := h.Store.ListWorkers(ctx, includeInactive)
	if err != nil {
		h.Logger.Error("workers list query failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve workers")
		return
	}

	response.Success(w, map[string]any{"workers": workers})
}

func (h *Handler) WorkerCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body workerCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	name := strings.TrimSpace(body.Name)
	if name == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Name is required")
		return
	}

	phone := validate.NormalizePhone(body.Phone)
	if phone != "" && !validate.ValidLocalMobile(phone) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid mobile number")
		return
	}

	payload := store.NewWorker{
		Name:        name,
		Phone:       optionalString(phone),
		Position:    optionalString(body.Position),
		BadgeNumber: body.BadgeNumber,
		Active:      true,
	}
	if password := strings.TrimSpace(body.Password); password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			h.Logger.Error("password hash failed", zapError(err))
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create worker")
			return
		}
		payload.PasswordHash = &hash
	}

	worker, err := h.Store.InsertWorker(ctx, payload)
	if err != nil {
		h.Logger.Error("worker insert failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create worker")
		return
	}

	response.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    map[string]any{"worker": worker},
	})
}

func (h *Handler) WorkerUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid worker id")
		return
	}

	var body workerUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	patch := store.WorkerPatch{
		Name:        body.Name,
		Position:    body.Position,
		BadgeNumber: body.BadgeNumber,
		Active:      body.Active,
	}
	if body.Phone != nil {
		phone := validate.NormalizePhone(*body.Phone)
		if phone != "" && !validate.ValidLocalMobile(phone) {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid mobile number")
			return
		}
		patch.Phone = &phone
	}
	if body.NewPassword != nil && strings.TrimSpace(*body.NewPassword) != "" {
		hash, err := auth.HashPassword(strings.TrimSpace(*body.NewPassword))
		if err != nil {
			h.Logger.Error("password hash failed", zapError(err))
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update worker")
			return
		}
		patch.PasswordHash = &hash
	}

	worker, err := h.Store.UpdateWorker(ctx, id, patch)
	if errors.Is(err, pgx.ErrNoRows) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Worker not found")
		return
	}
	if err != nil {
		h.Logger.Error("worker update failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update worker")
		return
	}

	response.Success(w, map[string]any{"worker": worker})
}

func (h *Handler) WorkerDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid worker id")
		return
	}

	if err := h.Store.DeleteWorker(ctx, id); err != nil {
		h.Logger.Error("worker delete failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete worker")
		return
	}

	response.Success(w, map[string]any{"deleted": true})
}
