package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/jackc/pgx/v5"

	"workshop-backoffice-service/internal/invoice"
	"workshop-backoffice-service/internal/store"
	"workshop-backoffice-service/pkg/response"
)

func (h *Handler) invoiceCompany() invoice.Company {
	return invoice.Company{
		NameAR:    h.Config.CompanyNameAR,
		NameEN:    h.Config.CompanyNameEN,
		Address:   h.Config.CompanyAddress,
		Phone:     h.Config.CompanyPhone,
		TaxNumber: h.Config.CompanyVATNumber,
	}
}

func (h *Handler) loadInvoiceDocument(r *http.Request) (invoice.Document, store.Ticket, error) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		return invoice.Document{}, store.Ticket{}, errMissingParam
	}

	ticket, err := h.Store.GetTicket(ctx, id)
	if err != nil {
		return invoice.Document{}, store.Ticket{}, err
	}

	workerName := ""
	if ticket.WorkerID != nil {
		workerName = h.Store.WorkerName(ctx, ticket.WorkerID)
	}

	kind := invoice.ParseKind(r.URL.Query().Get("kind"))
	return invoice.BuildDocument(ticket, workerName, h.invoiceCompany(), kind), ticket, nil
}

func (h *Handler) TicketInvoiceHTML(w http.ResponseWriter, r *http.Request) {
	doc, _, err := h.loadInvoiceDocument(r)
	if errors.Is(err, pgx.ErrNoRows) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Ticket not found")
		return
	}
	if errors.Is(err, errMissingParam) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ticket id")
		return
	}
	if err != nil {
		h.Logger.Error("invoice load failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build invoice")
		return
	}

	buf, err := invoice.RenderHTML(doc)
	if err != nil {
		h.Logger.Error("invoice html render failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render invoice")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) TicketInvoicePDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doc, ticket, err := h.loadInvoiceDocument(r)
	if errors.Is(err, pgx.ErrNoRows) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Ticket not found")
		return
	}
	if errors.Is(err, errMissingParam) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ticket id")
		return
	}
	if err != nil {
		h.Logger.Error("invoice load failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build invoice")
		return
	}

	buf, err := invoice.RenderPDF(doc)
	if err != nil {
		h.Logger.Error("invoice pdf render failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render invoice")
		return
	}

	// Archive a copy when the object store is wired. Archival failure
	// must not block the download.
	if h.Objects != nil && !doc.WorkOrder() {
		key := fmt.Sprintf("invoices/%d/%s.pdf", ticket.ID, sanitizeFilename(doc.InvoiceNumber))
		if _, putErr := h.Objects.PutObject(ctx, key, buf.Bytes(), "application/pdf", ""); putErr != nil {
			h.Logger.Warn("invoice archive failed", zapError(putErr))
		}
	}

	prefix := "invoice"
	if doc.WorkOrder() {
		prefix = "work_order"
	}
	filename := fmt.Sprintf("%s_%s.pdf", prefix, sanitizeFilename(doc.InvoiceNumber))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

var unsafeFilenameRe = regexp.MustCompile(`[^A-Za-z0-9._-]`)

func sanitizeFilename(value string) string {
	return unsafeFilenameRe.ReplaceAllString(value, "_")
}
