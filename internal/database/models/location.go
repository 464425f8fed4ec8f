package models

type Location struct {
	Base
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

func (Location) TableName() string {
	return "locations"
}
