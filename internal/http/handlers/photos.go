package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"workshop-backoffice-service/internal/utils"
	"workshop-backoffice-service/pkg/response"
)

const photoMaxSide = 1600
const photoJpegQuality = 82

func (h *Handler) readPhotoBytes(r *http.Request) ([]byte, string, *string) {
	file, header, err := r.FormFile("photo")
	if err != nil {
		msg := "Photo file is required"
		return nil, "", &msg
	}
	defer file.Close()

	maxBytes := h.Config.MaxFileSizeBytes
	data, readErr := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if readErr != nil {
		msg := "Failed to read file"
		return nil, "", &msg
	}
	if int64(len(data)) > maxBytes {
		msg := fmt.Sprintf("File size must be less than %dMB", maxBytes/(1024*1024))
		return nil, "", &msg
	}

	ct := strings.TrimSpace(header.Header.Get("Content-Type"))
	if ct == "" {
		ct = utils.DetectContentType(data)
	}
	if !utils.ValidateImageContentType(strings.ToLower(ct)) {
		msg := "Invalid file type. Please upload an image file."
		return nil, "", &msg
	}

	return data, strings.ToLower(ct), nil
}

func (h *Handler) TicketPhotoUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Objects == nil {
		response.Error(w, http.StatusServiceUnavailable, "STORAGE_DISABLED", "Photo storage is not configured")
		return
	}

	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ticket id")
		return
	}
	if _, err := h.Store.GetTicket(ctx, id); errors.Is(err, pgx.ErrNoRows) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Ticket not found")
		return
	} else if err != nil {
		h.Logger.Error("ticket load failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to upload photo")
		return
	}

	data, _, readErrMsg := h.readPhotoBytes(r)
	if readErrMsg != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", *readErrMsg)
		return
	}

	encoded, _, err := utils.EncodeJpegFitInside(data, photoMaxSide, photoJpegQuality)
	if err != nil {
		h.Logger.Warn("photo decode failed", zapError(err))
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Could not decode image")
		return
	}

	key := fmt.Sprintf("tickets/%d/photos/%d.jpg", id, time.Now().UnixNano())
	url, err := h.Objects.PutObject(ctx, key, encoded, "image/jpeg", "")
	if err != nil {
		h.Logger.Error("photo upload failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to upload photo")
		return
	}

	photo, err := h.Store.InsertTicketPhoto(ctx, id, url, key, "image/jpeg", int64(len(encoded)))
	if err != nil {
		h.Logger.Error("photo record insert failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save photo")
		return
	}

	response.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    map[string]any{"photo": photo},
	})
}

func (h *Handler) TicketPhotosList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ticket id")
		return
	}

	photos, err := h.Store.ListTicketPhotos(ctx, id)
	if err != nil {
		h.Logger.Error("photo list query failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve photos")
		return
	}

	response.Success(w, map[string]any{"photos": photos})
}

func (h *Handler) TicketPhotoDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticketID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ticket id")
		return
	}
	photoID, err := readPathInt64(r, "photoId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid photo id")
		return
	}

	objectKey, err := h.Store.DeleteTicketPhoto(ctx, ticketID, photoID)
	if errors.Is(err, pgx.ErrNoRows) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Photo not found")
		return
	}
	if err != nil {
		h.Logger.Error("photo delete failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete photo")
		return
	}

	if h.Objects != nil && objectKey != "" {
		if err := h.Objects.DeleteKey(ctx, objectKey); err != nil {
			h.Logger.Warn("photo object delete failed", zapError(err))
		}
	}

	response.Success(w, map[string]any{"deleted": true})
}
