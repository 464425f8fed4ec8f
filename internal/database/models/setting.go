package models

import "time"

// Known app_settings keys.
const (
	SettingAdminProfile = "admin_profile"
	SettingTermsContent = "terms_content"
)

// AppSetting is a generic key/value row layered on the relational store.
// The admin profile blob and the terms text live here under fixed keys.
type AppSetting struct {
	Key       string    `gorm:"primaryKey;column:setting_key" json:"key"`
	Value     string    `gorm:"type:text;column:setting_value" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by"`
}

func (AppSetting) TableName() string {
	return "app_settings"
}
