package models

type User struct {
	Base
	ExternalID string `gorm:"uniqueIndex;not null" json:"external_id"`
	Email      string `gorm:"uniqueIndex;not null" json:"email"`
	Name       string `gorm:"not null" json:"name"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	IsAdmin    bool   `gorm:"default:false" json:"is_admin"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`
	LastLogin  *int64 `json:"last_login,omitempty"` // unix seconds
}

func (User) TableName() string {
	return "users"
}
