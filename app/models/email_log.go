package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EmailTypeUserConfirmation  = "user_confirmation"
	EmailTypeAdminNotification = "admin_notification"
)

const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailLog records exactly one send attempt. Rows are append-only; outcome
// data is observability, never read back by the pipeline.
type EmailLog struct {
	ID               string     `gorm:"type:char(36);primaryKey" json:"id"`
	FormSubmissionID string     `gorm:"type:char(36);default:'';index" json:"form_submission_id"`
	ContactID        string     `gorm:"type:char(36);default:'';index" json:"contact_id"`
	RecipientEmail   string     `gorm:"type:varchar(200);not null;index" json:"recipient_email"`
	RecipientName    string     `gorm:"type:varchar(200);default:''" json:"recipient_name"`
	EmailType        string     `gorm:"type:varchar(32);not null;index" json:"email_type"`
	Subject          string     `gorm:"type:varchar(255);not null" json:"subject"`
	Status           string     `gorm:"type:varchar(16);not null;index" json:"status"`
	EmailServiceID   string     `gorm:"type:varchar(191);default:''" json:"email_service_id"`
	ErrorMessage     string     `gorm:"type:text" json:"error_message"`
	SentAt           *time.Time `gorm:"type:timestamp;default:null" json:"sent_at,omitempty"`
	FailedAt         *time.Time `gorm:"type:timestamp;default:null" json:"failed_at,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (e *EmailLog) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
