package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/greenloop/greenloop/internal/api/dto"
	"github.com/greenloop/greenloop/internal/api/middleware"
	"github.com/greenloop/greenloop/internal/catalog"
	"github.com/greenloop/greenloop/internal/storage"
)

const maxSubmissionBytes = 32 << 20

type ItemHandler struct {
	catalogService *catalog.Service
}

func NewItemHandler(catalogService *catalog.Service) *ItemHandler {
	return &ItemHandler{catalogService: catalogService}
}

// List handles GET /api/v1/items, the public feed of approved items.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalogService.Feed(r.Context(), catalog.FeedFilter{
		Category:     r.URL.Query().Get("category"),
		Status:       r.URL.Query().Get("status"),
		ApprovedOnly: true,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list items"})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /api/v1/items/{id}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid item ID"})
		return
	}

	item, err := h.catalogService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Item not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get item"})
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Create handles POST /api/v1/items. The submission arrives as a multipart
// form with the images under the "images" field.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid multipart form"})
		return
	}

	quantity, _ := strconv.Atoi(r.FormValue("quantity"))
	durationDays, _ := strconv.Atoi(r.FormValue("duration_days"))

	input := catalog.CreateInput{
		Name:         r.FormValue("name"),
		Quantity:     quantity,
		Category:     r.FormValue("category"),
		Location:     r.FormValue("location"),
		ExpiryDate:   r.FormValue("expiry_date"),
		DurationDays: durationDays,
		Description:  r.FormValue("description"),
		ContactInfo:  r.FormValue("contact_info"),
	}

	var images []catalog.ImageUpload
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Failed to read uploaded image"})
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Failed to read uploaded image"})
				return
			}
			images = append(images, catalog.ImageUpload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}

	item, err := h.catalogService.Create(r.Context(), userID, input, images)
	if err != nil {
		var verr *catalog.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":      "Validation failed",
				"violations": verr.Violations,
			})
		case errors.Is(err, catalog.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
		case errors.Is(err, storage.ErrUpload):
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Image upload failed"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create item"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// Update handles PUT /api/v1/items/{id}.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid item ID"})
		return
	}

	var req dto.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	actor := catalog.Actor{
		ID:      middleware.GetUserID(r.Context()),
		IsAdmin: middleware.IsAdmin(r.Context()),
	}

	item, err := h.catalogService.Update(r.Context(), id, actor, catalog.UpdateInput{
		Name:         req.Name,
		Quantity:     req.Quantity,
		Category:     req.Category,
		Location:     req.Location,
		ExpiryDate:   req.ExpiryDate,
		DurationDays: req.DurationDays,
		Description:  req.Description,
		ContactInfo:  req.ContactInfo,
	})
	if err != nil {
		var verr *catalog.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":      "Validation failed",
				"violations": verr.Violations,
			})
		case errors.Is(err, catalog.ErrItemNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Item not found"})
		case errors.Is(err, catalog.ErrForbidden):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Not authorized to edit this item"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update item"})
		}
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/v1/items/{id}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid item ID"})
		return
	}

	actor := catalog.Actor{
		ID:      middleware.GetUserID(r.Context()),
		IsAdmin: middleware.IsAdmin(r.Context()),
	}

	if err := h.catalogService.Delete(r.Context(), id, actor); err != nil {
		switch {
		case errors.Is(err, catalog.ErrItemNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Item not found"})
		case errors.Is(err, catalog.ErrForbidden):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Not authorized to delete this item"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete item"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Item deleted"})
}

// Claim handles POST /api/v1/items/{id}/claim.
func (h *ItemHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid item ID"})
		return
	}

	item, err := h.catalogService.Claim(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrItemNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Item not found"})
		case errors.Is(err, catalog.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
		case errors.Is(err, catalog.ErrNotApproved):
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Item is not approved"})
		case errors.Is(err, catalog.ErrNotAvailable):
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Item is no longer available"})
		case errors.Is(err, catalog.ErrSelfClaim):
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "You cannot claim your own item"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to claim item"})
		}
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Complete handles POST /api/v1/items/{id}/complete.
func (h *ItemHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid item ID"})
		return
	}

	actor := catalog.Actor{
		ID:      middleware.GetUserID(r.Context()),
		IsAdmin: middleware.IsAdmin(r.Context()),
	}

	item, err := h.catalogService.Complete(r.Context(), id, actor)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrItemNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Item not found"})
		case errors.Is(err, catalog.ErrForbidden):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Only the owner or claimant can complete an item"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to complete item"})
		}
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// MyItems handles GET /api/v1/items/mine.
func (h *ItemHandler) MyItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalogService.ListByOwner(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list items"})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// MyClaims handles GET /api/v1/items/claimed.
func (h *ItemHandler) MyClaims(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalogService.ListClaimedBy(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list claimed items"})
		return
	}
	writeJSON(w, http.StatusOK, items)
}
