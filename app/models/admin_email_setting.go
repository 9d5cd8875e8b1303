package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminEmailSetting subscribes one admin address to event categories. The
// notification pipeline only ever reads these rows.
type AdminEmailSetting struct {
	ID                      string    `gorm:"type:char(36);primaryKey" json:"id"`
	AdminEmail              string    `gorm:"type:varchar(200);not null;uniqueIndex" json:"admin_email"`
	NotifyNewFormSubmission bool      `gorm:"default:true" json:"notify_new_form_submission"`
	NotifyNewContact        bool      `gorm:"default:true" json:"notify_new_contact"`
	IsActive                bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt               time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *AdminEmailSetting) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
