package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"workshop-backoffice-service/internal/auth"
	"workshop-backoffice-service/internal/middleware"
	"workshop-backoffice-service/internal/money"
	"workshop-backoffice-service/internal/queue"
	"workshop-backoffice-service/internal/reports"
	"workshop-backoffice-service/internal/store"
	"workshop-backoffice-service/internal/utils"
	"workshop-backoffice-service/internal/validate"
	"workshop-backoffice-service/pkg/response"
)

type ticketLineItemRequest struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   any     `json:"unitPrice"`
}

type ticketCreateRequest struct {
	WorkerID          *int64                  `json:"workerId"`
	CustomerName      string                  `json:"customerName"`
	CustomerPhone     string                  `json:"customerPhone"`
	Title             string                  `json:"title"`
	WorkNotes         string                  `json:"workNotes"`
	TotalAmount       any                     `json:"totalAmount"`
	Discount          any                     `json:"discount"`
	DiscountIsPercent bool                    `json:"discountIsPercent"`
	PaymentMethod     string                  `json:"paymentMethod"`
	CarInfo           string                  `json:"carInfo"`
	PlateNumber       string                  `json:"plateNumber"`
	PlateLetters      string                  `json:"plateLetters"`
	Country           string                  `json:"country"`
	Make              string                  `json:"make"`
	Model             string                  `json:"model"`
	Year              string                  `json:"year"`
	Color             string                  `json:"color"`
	LineItems         []ticketLineItemRequest `json:"lineItems"`
}

func (h *Handler) TicketsList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization required")
		return
	}

	filter := store.TicketFilter{
		From: strings.TrimSpace(r.URL.Query().Get("from")),
		To:   strings.TrimSpace(r.URL.Query().Get("to")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("workerId")); raw != "" {
		if workerID, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.WorkerID = &workerID
		}
	}
	// Employees only see their own tickets.
	if authCtx.Role != auth.RoleManager {
		filter.WorkerID = &authCtx.WorkerID
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			filter.Limit = n
		}
	}

	tickets, err := h.Store.QueryTickets(ctx, filter)
	if err != nil {
		h.Logger.Error("tickets list query failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve tickets")
		return
	}

	response.Success(w, map[string]any{"tickets": tickets})
}

// normalizeVehicleFields applies phone, year, and plate normalization and
// reports the first validation failure.
func (h *Handler) validateTicketFields(phone, year, plate string) (string, string, string, string) {
	normalizedPhone := validate.NormalizePhone(phone)
	if normalizedPhone != "" && !validate.ValidLocalMobile(normalizedPhone) {
		return "", "", "", "Invalid mobile number"
	}

	sanitizedYear := validate.SanitizeYear(year)
	if sanitizedYear != "" && !validate.ValidYear(sanitizedYear, time.Now()) {
		return "", "", "", "Invalid model year"
	}

	normalizedPlate := validate.NormalizePlateNumber(plate)
	if normalizedPlate != "" && !validate.ValidPlateNumber(normalizedPlate) {
		return "", "", "", "Invalid plate number"
	}

	return normalizedPhone, sanitizedYear, normalizedPlate, ""
}

func (h *Handler) effectiveTaxRate(ctx context.Context) float64 {
	rate, _, err := h.Store.TaxRate(ctx, h.Config.DefaultTaxRate)
	if err != nil {
		h.Logger.Warn("tax rate lookup failed, using default", zapError(err))
		return h.Config.DefaultTaxRate
	}
	return rate
}

func (h *Handler) TicketCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization required")
		return
	}

	var body ticketCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	name := strings.TrimSpace(body.CustomerName)
	title := strings.TrimSpace(body.Title)
	if name == "" || title == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Customer name and title are required")
		return
	}

	phone, year, plate, validationErr := h.validateTicketFields(body.CustomerPhone, body.Year, body.PlateNumber)
	if validationErr != "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", validationErr)
		return
	}

	workerID := body.WorkerID
	if authCtx.Role != auth.RoleManager {
		workerID = &authCtx.WorkerID
	}

	network := money.IsNetworkPayment(body.PaymentMethod, h.Config.NetworkPaymentMarkers)
	pricing := money.ResolvePricing(
		numberFromAny(body.TotalAmount),
		numberFromAny(body.Discount),
		body.DiscountIsPercent,
		network,
		h.effectiveTaxRate(ctx),
	)

	payload := store.NewTicket{
		WorkerID:      workerID,
		CustomerName:  name,
		CustomerPhone: phone,
		Title:         title,
		WorkNotes:     optionalString(body.WorkNotes),
		Price:         pricing.Base,
		Discount:      pricing.Discount,
		Tax:           pricing.Tax,
		PaymentMethod: strings.TrimSpace(body.PaymentMethod),
		CarInfo:       optionalString(body.CarInfo),
		PlateNumber:   optionalString(plate),
		PlateLetters:  optionalString(body.PlateLetters),
		Country:       optionalString(body.Country),
		Make:          optionalString(body.Make),
		Model:         optionalString(body.Model),
		Year:          optionalString(year),
		Color:         optionalString(body.Color),
	}
	for _, item := range body.LineItems {
		desc := strings.TrimSpace(item.Description)
		if desc == "" || item.Quantity <= 0 {
			continue
		}
		payload.LineItems = append(payload.LineItems, store.LineItem{
			Description: desc,
			Quantity:    item.Quantity,
			UnitPrice:   money.Round2(numberFromAny(item.UnitPrice)),
		})
	}

	ticket, err := h.Store.InsertTicket(ctx, payload)
	if err != nil {
		h.Logger.Error("ticket insert failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create ticket")
		return
	}

	if err := h.Store.NotifyTicketsChanged(ctx); err != nil {
		h.Logger.Warn("ticket change notify failed", zapError(err))
	}

	response.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data": map[string]any{
			"ticket":        ticket,
			"trackingToken": utils.CreateTicketTrackingToken(h.Config.TrackingTokenSecret, ticket.ID, ticket.CustomerPhone),
		},
	})
}

func (h *Handler) TicketGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ticket id")
		return
	}

	ticket, err := h.Store.GetTicket(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Ticket not found")
		return
	}
	if err != nil {
		h.Logger.Error("ticket get failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve ticket")
		return
	}

	asPercent := strings.EqualFold(r.URL.Query().Get("discountAsPercent"), "true")
	edit := money.EditView(ticket.Price, ticket.Tax, ticket.Discount, asPercent)

	response.Success(w, map[string]any{
		"ticket":        ticket,
		"trackingToken": utils.CreateTicketTrackingToken(h.Config.TrackingTokenSecret, ticket.ID, ticket.CustomerPhone),
		"edit": map[string]any{
			"totalAmount":       edit.TotalInclusive,
			"discount":          edit.Discount,
			"discountIsPercent": edit.DiscountIsPercent,
		},
	})
}

// TicketPatch applies a partial update. When any pricing input changes the
// whole price/discount/tax triple is recomputed from the stored state, so
// clients can never write raw pricing columns.
func (h *Handler) TicketPatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ticket id")
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	current, err := h.Store.GetTicket(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Ticket not found")
		return
	}
	if err != nil {
		h.Logger.Error("ticket load failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update ticket")
		return
	}

	patch := map[string]any{}

	if v, ok := body["customerName"]; ok {
		patch["customer_name"] = stringFromAny(v)
	}
	if v, ok := body["title"]; ok {
		patch["title"] = stringFromAny(v)
	}
	if v, ok := body["workNotes"]; ok {
		patch["work_notes"] = stringFromAny(v)
	}
	if v, ok := body["carInfo"]; ok {
		patch["car_info"] = stringFromAny(v)
	}
	if v, ok := body["plateLetters"]; ok {
		patch["plate_letters"] = stringFromAny(v)
	}
	if v, ok := body["country"]; ok {
		patch["country"] = stringFromAny(v)
	}
	if v, ok := body["make"]; ok {
		patch["make"] = stringFromAny(v)
	}
	if v, ok := body["model"]; ok {
		patch["model"] = stringFromAny(v)
	}
	if v, ok := body["color"]; ok {
		patch["color"] = stringFromAny(v)
	}
	if v, ok := body["workerId"]; ok {
		switch n := v.(type) {
		case float64:
			patch["worker_id"] = int64(n)
		case nil:
			patch["worker_id"] = nil
		}
	}

	phoneRaw, hasPhone := body["customerPhone"]
	yearRaw, hasYear := body["year"]
	plateRaw, hasPlate := body["plateNumber"]
	phone, year, plate, validationErr := h.validateTicketFields(
		stringFromAny(phoneRaw), stringFromAny(yearRaw), stringFromAny(plateRaw))
	if validationErr != "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", validationErr)
		return
	}
	if hasPhone {
		patch["customer_phone"] = phone
	}
	if hasYear {
		patch["year"] = year
	}
	if hasPlate {
		patch["plate_number"] = plate
	}

	newStatus := ""
	if v, ok := body["status"]; ok {
		canonical, valid := reports.CanonicalStatus(stringFromAny(v))
		if !valid {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown status")
			return
		}
		patch["status"] = canonical
		if canonical != current.Status {
			newStatus = canonical
		}
	}

	_, hasTotal := body["totalAmount"]
	_, hasDiscount := body["discount"]
	_, hasPercentFlag := body["discountIsPercent"]
	_, hasPayment := body["paymentMethod"]

	paymentMethod := current.PaymentMethod
	if hasPayment {
		paymentMethod = stringFromAny(body["paymentMethod"])
		patch["payment_method"] = paymentMethod
	}

	if hasTotal || hasDiscount || hasPercentFlag || hasPayment {
		totalInclusive := money.Round2(current.Price + current.Tax + current.Discount)
		if hasTotal {
			totalInclusive = numberFromAny(body["totalAmount"])
		}
		discountInput := current.Discount
		isPercent := false
		if hasDiscount {
			discountInput = numberFromAny(body["discount"])
			isPercent = boolFromAny(body["discountIsPercent"])
		}

		network := money.IsNetworkPayment(paymentMethod, h.Config.NetworkPaymentMarkers)
		pricing := money.ResolvePricing(totalInclusive, discountInput, isPercent, network, h.effectiveTaxRate(ctx))
		patch["price"] = pricing.Base
		patch["discount"] = pricing.Discount
		patch["tax"] = pricing.Tax
	}

	if len(patch) == 0 {
		response.Success(w, map[string]any{"ticket": current})
		return
	}

	ticket, err := h.Store.UpdateTicket(ctx, id, patch)
	if err != nil {
		h.Logger.Error("ticket update failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update ticket")
		return
	}

	if err := h.Store.NotifyTicketsChanged(ctx); err != nil {
		h.Logger.Warn("ticket change notify failed", zapError(err))
	}
	if newStatus != "" {
		h.publishStatusEvent(ctx, ticket.ID, newStatus)
	}

	response.Success(w, map[string]any{"ticket": ticket})
}

type ticketStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) TicketStatusUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ticket id")
		return
	}

	var body ticketStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	status, valid := reports.CanonicalStatus(body.Status)
	if !valid {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown status")
		return
	}

	ticket, err := h.Store.UpdateTicket(ctx, id, map[string]any{"status": status})
	if errors.Is(err, pgx.ErrNoRows) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Ticket not found")
		return
	}
	if err != nil {
		h.Logger.Error("ticket status update failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update status")
		return
	}

	if err := h.Store.NotifyTicketsChanged(ctx); err != nil {
		h.Logger.Warn("ticket change notify failed", zapError(err))
	}
	h.publishStatusEvent(ctx, ticket.ID, status)

	response.Success(w, map[string]any{"ticket": ticket})
}

func (h *Handler) publishStatusEvent(ctx context.Context, ticketID int64, status string) {
	if h.Queue == nil {
		return
	}
	now := time.Now().UTC()
	evt := queue.TicketStatusUpdatedEvent{
		Type:      "ticket.status.updated",
		TicketID:  ticketID,
		Status:    status,
		UpdatedAt: &now,
	}
	if err := h.Queue.PublishJSON(ctx, queue.EventsExchange, queue.TicketStatusUpdatedRK, evt); err != nil {
		h.Logger.Warn("status event publish failed", zapError(err))
	}
}
