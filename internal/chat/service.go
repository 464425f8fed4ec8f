// Package chat provides per-item message threads between an item's owner
// and its claimant.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/greenloop/greenloop/internal/database/models"
	"github.com/greenloop/greenloop/internal/notify"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound   = errors.New("item not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrNotParticipant = errors.New("only the item owner or claimant may chat")
	ErrEmptyMessage   = errors.New("message body is required")
)

const maxMessageLen = 2000

type Service struct {
	db       *gorm.DB
	notifier *notify.Service
	logger   *slog.Logger
}

func NewService(db *gorm.DB, notifier *notify.Service, logger *slog.Logger) *Service {
	return &Service{db: db, notifier: notifier, logger: logger}
}

// Post appends a message to the item's thread. Only the owner and the
// current claimant participate; the other participant gets a notification.
func (s *Service) Post(ctx context.Context, itemID, senderID uuid.UUID, body string) (*models.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" || len(body) > maxMessageLen {
		return nil, ErrEmptyMessage
	}

	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if senderID != item.OwnerID && !(item.ClaimedBy != nil && senderID == *item.ClaimedBy) {
		return nil, ErrNotParticipant
	}

	var sender models.User
	if err := s.db.WithContext(ctx).First(&sender, "id = ?", senderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	msg := models.ChatMessage{
		ItemID:      item.ID,
		SenderID:    sender.ID,
		SenderName:  sender.Name,
		SenderEmail: sender.Email,
		Body:        body,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}

	if recipient, ok := s.otherParticipant(item, senderID); ok {
		s.notifier.Notify(ctx, recipient,
			"New Message",
			fmt.Sprintf("%s sent you a message about %q", sender.Name, item.Name),
			models.NotificationNewMessage, &item.ID, "/dashboard")
	}

	return &msg, nil
}

// List returns the item's thread in chronological order. Reading is gated
// the same way as posting.
func (s *Service) List(ctx context.Context, itemID, requesterID uuid.UUID) ([]models.ChatMessage, error) {
	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if requesterID != item.OwnerID && !(item.ClaimedBy != nil && requesterID == *item.ClaimedBy) {
		return nil, ErrNotParticipant
	}

	var messages []models.ChatMessage
	err = s.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (s *Service) otherParticipant(item *models.Item, senderID uuid.UUID) (uuid.UUID, bool) {
	if senderID == item.OwnerID {
		if item.ClaimedBy != nil {
			return *item.ClaimedBy, true
		}
		return uuid.Nil, false
	}
	return item.OwnerID, true
}

func (s *Service) loadItem(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := s.db.WithContext(ctx).First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}
