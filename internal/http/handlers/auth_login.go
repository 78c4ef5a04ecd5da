package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"workshop-backoffice-service/internal/auth"
	"workshop-backoffice-service/internal/validate"
	"workshop-backoffice-service/pkg/response"
)

type loginRequest struct {
	Phone       string `json:"phone"`
	BadgeNumber *int64 `json:"badgeNumber"`
	Password    string `json:"password"`
}

// WorkerLogin authenticates by normalized phone or badge number.
// Rows still holding a plain-text password are rejected until a manager
// resets them.
func (h *Handler) WorkerLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	phone := validate.NormalizePhone(body.Phone)
	password := strings.TrimSpace(body.Password)
	if (phone == "" && body.BadgeNumber == nil) || password == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Phone or badge number and password are required")
		return
	}
	if phone != "" && !validate.ValidLocalMobile(phone) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid mobile number")
		return
	}

	worker, err := h.Store.FindWorkerForLogin(ctx, phone, body.BadgeNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
		return
	}
	if err != nil {
		h.Logger.Error("login lookup failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed")
		return
	}

	if !worker.Active {
		response.Error(w, http.StatusForbidden, "ACCOUNT_DISABLED", "Worker account is not active")
		return
	}

	if err := auth.CheckPassword(worker.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrLegacyCredential) {
			response.Error(w, http.StatusForbidden, "PASSWORD_RESET_REQUIRED", "Password must be reset by a manager")
			return
		}
		response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
		return
	}

	position := ""
	if worker.Position != nil {
		position = *worker.Position
	}
	role := auth.RoleFor(worker.BadgeNumber, position)

	ttl := time.Duration(h.Config.JWTExpirySeconds) * time.Second
	token, err := auth.GenerateAccessToken(h.Config.JWTSecret, worker.ID, role, worker.Name, ttl)
	if err != nil {
		h.Logger.Error("token generation failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed")
		return
	}

	response.Success(w, map[string]any{
		"token":     token,
		"expiresIn": h.Config.JWTExpirySeconds,
		"worker": map[string]any{
			"id":          worker.ID,
			"name":        worker.Name,
			"phone":       worker.Phone,
			"position":    worker.Position,
			"badgeNumber": worker.BadgeNumber,
			"role":        role,
		},
	})
}
