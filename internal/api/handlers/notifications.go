package handlers

import (
	"net/http"

	"github.com/greenloop/greenloop/internal/api/dto"
	"github.com/greenloop/greenloop/internal/api/middleware"
	"github.com/greenloop/greenloop/internal/notify"
)

type NotificationHandler struct {
	notifyService *notify.Service
}

func NewNotificationHandler(notifyService *notify.Service) *NotificationHandler {
	return &NotificationHandler{notifyService: notifyService}
}

// List handles GET /api/v1/notifications.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notifyService.ListForUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list notifications"})
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// UnreadCount handles GET /api/v1/notifications/unread-count.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notifyService.UnreadCount(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to count notifications"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"unread_count": count})
}

// MarkRead handles POST /api/v1/notifications/{id}/read. Marking an
// already-read notification succeeds; only a notification that is not
// yours comes back 404.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid notification ID"})
		return
	}

	found, err := h.notifyService.MarkRead(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to mark notification read"})
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Notification not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Notification marked as read"})
}

// MarkAllRead handles POST /api/v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	count, err := h.notifyService.MarkAllRead(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to mark notifications read"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"marked": count})
}
