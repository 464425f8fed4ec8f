package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/greenloop/greenloop/internal/api/dto"
	"github.com/greenloop/greenloop/internal/database/models"
	"gorm.io/gorm"
)

// UserHandler serves the admin user management endpoints.
type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// List handles GET /api/v1/admin/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.db.WithContext(r.Context()).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list users"})
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Suspend handles POST /api/v1/admin/users/{id}/suspend.
func (h *UserHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

// Activate handles POST /api/v1/admin/users/{id}/activate.
func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *UserHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	res := h.db.WithContext(r.Context()).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update user"})
		return
	}
	if res.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
		return
	}

	msg := "User suspended"
	if active {
		msg = "User activated"
	}
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: msg})
}

// Delete handles DELETE /api/v1/admin/users/{id}. The purge cascades: the
// user's items, every chat thread on those items, their own messages and
// their notifications all go in one transaction.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return err
		}

		var itemIDs []uuid.UUID
		if err := tx.Model(&models.Item{}).
			Where("owner_id = ?", id).
			Pluck("id", &itemIDs).Error; err != nil {
			return err
		}

		if len(itemIDs) > 0 {
			if err := tx.Delete(&models.ChatMessage{}, "item_id IN ?", itemIDs).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Item{}, "id IN ?", itemIDs).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&models.ChatMessage{}, "sender_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Notification{}, "user_id = ?", id).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete user"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "User and related data deleted"})
}
