package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/greenloop/greenloop/internal/api/dto"
	"github.com/greenloop/greenloop/internal/catalog"
)

// ModerationHandler serves the admin review queue. The three buckets are
// disjoint: pending has no outcome yet, approved passed review, rejected
// carries a reason.
type ModerationHandler struct {
	catalogService *catalog.Service
}

func NewModerationHandler(catalogService *catalog.Service) *ModerationHandler {
	return &ModerationHandler{catalogService: catalogService}
}

// Pending handles GET /api/v1/admin/items/pending.
func (h *ModerationHandler) Pending(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalogService.ListPending(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list pending items"})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Approved handles GET /api/v1/admin/items/approved.
func (h *ModerationHandler) Approved(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalogService.ListApproved(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list approved items"})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Rejected handles GET /api/v1/admin/items/rejected.
func (h *ModerationHandler) Rejected(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalogService.ListRejected(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list rejected items"})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Approve handles POST /api/v1/admin/items/{id}/approve.
func (h *ModerationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid item ID"})
		return
	}

	item, err := h.catalogService.Approve(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Item not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to approve item"})
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Reject handles POST /api/v1/admin/items/{id}/reject.
func (h *ModerationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid item ID"})
		return
	}

	var req dto.RejectItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	item, err := h.catalogService.Reject(r.Context(), id, req.Reason)
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Item not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to reject item"})
		return
	}

	writeJSON(w, http.StatusOK, item)
}
