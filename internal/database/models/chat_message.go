package models

import "github.com/google/uuid"

// ChatMessage is immutable once created. Sender name/email are snapshotted
// so threads survive a user purge of the other participant.
type ChatMessage struct {
	Base
	ItemID      uuid.UUID `gorm:"type:uuid;index;not null" json:"item_id"`
	SenderID    uuid.UUID `gorm:"type:uuid;index;not null" json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	SenderEmail string    `json:"sender_email"`
	Body        string    `gorm:"type:text;not null" json:"body"`

	Item *Item `gorm:"foreignKey:ItemID" json:"-"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
