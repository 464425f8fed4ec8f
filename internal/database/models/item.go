package models

import (
	"time"

	"github.com/google/uuid"
)

type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "available"
	ItemStatusClaimed   ItemStatus = "claimed"
	ItemStatusCompleted ItemStatus = "completed"
)

// Item is a donatable listing. Moderation outcome (Approved plus
// RejectionReason) and transactional Status are tracked independently: an
// item can be claimed while a later owner edit sends it back for re-review.
type Item struct {
	Base
	Name     string `gorm:"not null" json:"name"`
	Quantity int    `gorm:"not null" json:"quantity"`
	Category string `gorm:"index;not null" json:"category"`
	Location string `gorm:"not null" json:"location"`

	OwnerID uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	// Snapshots taken at creation so listings render without a join.
	OwnerName  string `json:"owner_name"`
	OwnerEmail string `json:"owner_email"`

	ExpiryDate   time.Time   `json:"expiry_date"`
	DurationDays int         `gorm:"default:7" json:"duration_days"`
	Description  string      `gorm:"type:text;not null" json:"description"`
	ContactInfo  string      `json:"contact_info"`
	ImageURLs    StringArray `gorm:"type:text" json:"image_urls"`

	Status   ItemStatus `gorm:"not null;index;default:'available'" json:"status"`
	Approved bool       `gorm:"index;default:false" json:"approved"`

	ClaimedBy      *uuid.UUID `gorm:"type:uuid;index" json:"claimed_by,omitempty"`
	ClaimantEmail  string     `json:"claimant_email,omitempty"`
	ClaimExpiresAt *time.Time `json:"claim_expires_at,omitempty"`

	RejectionReason *string    `gorm:"type:text" json:"rejection_reason,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Item) TableName() string {
	return "items"
}
