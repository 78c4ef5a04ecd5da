package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"

	"workshop-backoffice-service/internal/utils"
	"workshop-backoffice-service/pkg/response"
)

// PublicTicketStatus lets a customer poll their ticket without an
// account. The HMAC token handed out with the ticket binds the lookup
// to the ticket id and the phone it was issued for.
func (h *Handler) PublicTicketStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ticket id")
		return
	}

	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Tracking token required")
		return
	}

	ticket, err := h.Store.GetTicket(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Ticket not found")
		return
	}
	if err != nil {
		h.Logger.Error("public ticket load failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve ticket")
		return
	}

	if !utils.VerifyTicketTrackingToken(h.Config.TrackingTokenSecret, token, ticket.ID, ticket.CustomerPhone) {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid tracking token")
		return
	}

	response.Success(w, map[string]any{
		"ticket": map[string]any{
			"id":        ticket.ID,
			"title":     ticket.Title,
			"status":    ticket.Status,
			"updatedAt": ticket.UpdatedAt,
		},
	})
}
