package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact is one general contact-form message.
type Contact struct {
	ID              string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name            string    `gorm:"type:varchar(200);not null" json:"name"`
	Email           string    `gorm:"type:varchar(200);not null;index" json:"email"`
	Phone           string    `gorm:"type:varchar(50);default:''" json:"phone"`
	Subject         string    `gorm:"type:varchar(255);not null" json:"subject"`
	Message         string    `gorm:"type:text;not null" json:"message"`
	ServiceInterest string    `gorm:"type:varchar(100);default:''" json:"service_interest"`
	Status          string    `gorm:"type:varchar(20);not null;default:'new'" json:"status"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
