package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/greenloop/greenloop/internal/api/dto"
	"github.com/greenloop/greenloop/internal/api/middleware"
	"github.com/greenloop/greenloop/internal/chat"
)

type ChatHandler struct {
	chatService *chat.Service
}

func NewChatHandler(chatService *chat.Service) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// List handles GET /api/v1/items/{id}/messages.
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	itemID, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid item ID"})
		return
	}

	messages, err := h.chatService.List(r.Context(), itemID, middleware.GetUserID(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrItemNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Item not found"})
		case errors.Is(err, chat.ErrNotParticipant):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Only the item owner or claimant can view this chat"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list messages"})
		}
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// Post handles POST /api/v1/items/{id}/messages.
func (h *ChatHandler) Post(w http.ResponseWriter, r *http.Request) {
	itemID, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid item ID"})
		return
	}

	var req dto.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	msg, err := h.chatService.Post(r.Context(), itemID, middleware.GetUserID(r.Context()), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrItemNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Item not found"})
		case errors.Is(err, chat.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
		case errors.Is(err, chat.ErrNotParticipant):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Only the item owner or claimant can chat"})
		case errors.Is(err, chat.ErrEmptyMessage):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Message is required"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to send message"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}
