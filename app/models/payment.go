package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment statuses move strictly forward: pending -> processing -> succeeded,
// or pending/processing -> failed. A status never regresses; webhook
// redelivery re-applies the same transition as a no-op.
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusSucceeded  = "succeeded"
	PaymentStatusFailed     = "failed"
)

// PaymentStatusRank orders payment statuses along the allowed transitions.
// Unknown statuses rank below pending so they can always be overwritten.
func PaymentStatusRank(status string) int {
	switch status {
	case PaymentStatusPending:
		return 1
	case PaymentStatusProcessing:
		return 2
	case PaymentStatusSucceeded, PaymentStatusFailed:
		return 3
	default:
		return 0
	}
}

// Payment mirrors one Stripe Checkout purchase for a form submission.
type Payment struct {
	ID                      string     `gorm:"type:char(36);primaryKey" json:"id"`
	FormSubmissionID        string     `gorm:"type:char(36);not null;index" json:"form_submission_id"`
	StripeCheckoutSessionID string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"stripe_checkout_session_id"`
	StripePaymentIntentID   string     `gorm:"type:varchar(191);default:'';index" json:"stripe_payment_intent_id"`
	StripeCustomerID        string     `gorm:"type:varchar(191);default:''" json:"stripe_customer_id"`
	Status                  string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Amount                  int64      `gorm:"not null" json:"amount"`
	Currency                string     `gorm:"type:varchar(3);not null;default:'usd'" json:"currency"`
	PaymentMethodType       string     `gorm:"type:varchar(32);default:''" json:"payment_method_type"`
	CardBrand               string     `gorm:"type:varchar(32);default:''" json:"card_brand"`
	CardLast4               string     `gorm:"type:varchar(4);default:''" json:"card_last4"`
	ReceiptURL              string     `gorm:"type:text" json:"receipt_url"`
	PaidAt                  *time.Time `gorm:"type:timestamp;default:null" json:"paid_at,omitempty"`
	CreatedAt               time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
