package models

import "github.com/google/uuid"

type NotificationType string

const (
	NotificationItemApproved NotificationType = "item_approved"
	NotificationItemRejected NotificationType = "item_rejected"
	NotificationItemClaimed  NotificationType = "item_claimed"
	NotificationNewMessage   NotificationType = "new_message"
)

type Notification struct {
	Base
	UserID        uuid.UUID        `gorm:"type:uuid;index;not null" json:"user_id"`
	Title         string           `gorm:"not null" json:"title"`
	Body          string           `gorm:"type:text;not null" json:"body"`
	Type          NotificationType `gorm:"not null;index" json:"type"`
	RelatedItemID *uuid.UUID       `gorm:"type:uuid" json:"related_item_id,omitempty"`
	ActionURL     string           `json:"action_url,omitempty"`
	IsRead        bool             `gorm:"index;default:false" json:"is_read"`
}

func (Notification) TableName() string {
	return "notifications"
}
