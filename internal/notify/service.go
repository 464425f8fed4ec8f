// Package notify implements the per-user notification mailbox. Writes are a
// best-effort side effect of catalog and chat transitions: a failed insert
// is logged and swallowed so it can never roll back the operation that
// triggered it.
package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/greenloop/greenloop/internal/database/models"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Notify writes one mailbox entry for userID. Fire-and-forget: errors are
// logged, never returned.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, title, body string, typ models.NotificationType, relatedItem *uuid.UUID, actionURL string) {
	n := models.Notification{
		UserID:        userID,
		Title:         title,
		Body:          body,
		Type:          typ,
		RelatedItemID: relatedItem,
		ActionURL:     actionURL,
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		s.logger.Error("failed to write notification",
			"user_id", userID,
			"type", typ,
			"error", err,
		)
	}
}

// ListForUser returns the user's mailbox, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// MarkRead flags one notification as read. Scoped to the owner; marking an
// already-read notification is a no-op, an unknown id reports false.
func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish "not yours / missing" from "already read".
		var count int64
		if err := s.db.WithContext(ctx).
			Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", id, userID).
			Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	}
	return true, nil
}

// MarkAllRead flags every unread notification for the user and returns how
// many were flipped.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
