package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Intake form types offered on the site. Unknown values are tolerated and
// rendered verbatim in notifications.
const (
	FormTypeQuickIntake   = "quick_intake"
	FormTypeAidAttendance = "aid_attendance"
	FormTypeNexusLetter   = "nexus_letter"
	FormTypeDBQ           = "dbq"
	FormType1151Claim     = "1151_claim"
	FormTypeUnsure        = "unsure"
)

// FormTypeLabel resolves a form type to its human-readable label.
// Unrecognized types pass through verbatim.
func FormTypeLabel(formType string) string {
	switch formType {
	case FormTypeQuickIntake:
		return "Quick Intake"
	case FormTypeAidAttendance:
		return "Aid & Attendance"
	case FormTypeNexusLetter:
		return "Nexus Letter"
	case FormTypeDBQ:
		return "DBQ"
	case FormType1151Claim:
		return "1151 Claim"
	case FormTypeUnsure:
		return "General Inquiry"
	default:
		return formType
	}
}

// Submission payment_status values (denormalized from Payment.Status).
const (
	SubmissionPaymentPending = "pending"
	SubmissionPaymentPaid    = "paid"
)

// FormSubmission is one intake form filled out by a requester. Rows are
// created by the intake API; the webhook pipeline only updates the payment_*
// fields. PaymentID is set at most once, on the first successful payment.
type FormSubmission struct {
	ID             string    `gorm:"type:char(36);primaryKey" json:"id"`
	FormType       string    `gorm:"type:varchar(50);not null;index" json:"form_type"`
	FullName       string    `gorm:"type:varchar(200);not null" json:"full_name"`
	Email          string    `gorm:"type:varchar(200);not null;index" json:"email"`
	Phone          string    `gorm:"type:varchar(50);default:''" json:"phone"`
	FormData       JSON      `gorm:"type:jsonb" json:"form_data"`
	RequiresUpload bool      `gorm:"default:false" json:"requires_upload"`
	HasUploads     bool      `gorm:"default:false" json:"has_uploads"`
	Status         string    `gorm:"type:varchar(20);not null;default:'new'" json:"status"`
	PaymentStatus  string    `gorm:"type:varchar(20);default:''" json:"payment_status"`
	PaymentAmount  int64     `gorm:"default:0" json:"payment_amount"`
	PaymentID      string    `gorm:"type:char(36);default:''" json:"payment_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (f *FormSubmission) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
