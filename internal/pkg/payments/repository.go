package payments

import (
	"gorm.io/gorm"

	"github.com/mdnexus/nexus-server/app/models"
)

// Repository provides the DB operations the payment pipeline needs.
type Repository interface {
	CreatePayment(p *models.Payment) error
	FindPaymentByCheckoutSession(sessionID string) (*models.Payment, error)
	FindPaymentByPaymentIntent(intentID string) (*models.Payment, error)
	UpdatePaymentFields(id string, updates map[string]interface{}) error
	FindFormSubmission(id string) (*models.FormSubmission, error)
	MarkSubmissionPaymentPending(id string) error
	AttachPaymentToSubmission(submissionID, paymentID string, amount int64) error
	MarkPaymentFailed(id string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a payments repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreatePayment(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *gormRepository) FindPaymentByCheckoutSession(sessionID string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Where("stripe_checkout_session_id = ?", sessionID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) FindPaymentByPaymentIntent(intentID string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Where("stripe_payment_intent_id = ?", intentID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) UpdatePaymentFields(id string, updates map[string]interface{}) error {
	return r.db.Model(&models.Payment{}).Where("id = ?", id).Updates(updates).Error
}

func (r *gormRepository) FindFormSubmission(id string) (*models.FormSubmission, error) {
	var f models.FormSubmission
	if err := r.db.Where("id = ?", id).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// MarkSubmissionPaymentPending sets payment_status=pending unless the
// submission is already paid. Out-of-order webhook delivery must never
// regress a paid submission.
func (r *gormRepository) MarkSubmissionPaymentPending(id string) error {
	return r.db.Model(&models.FormSubmission{}).
		Where("id = ? AND payment_status <> ?", id, models.SubmissionPaymentPaid).
		Update("payment_status", models.SubmissionPaymentPending).Error
}

// AttachPaymentToSubmission propagates a successful payment onto the
// submission. payment_id is written at most once; re-delivered events leave
// the original association untouched.
func (r *gormRepository) AttachPaymentToSubmission(submissionID, paymentID string, amount int64) error {
	return r.db.Model(&models.FormSubmission{}).
		Where("id = ?", submissionID).
		Updates(map[string]interface{}{
			"payment_status": models.SubmissionPaymentPaid,
			"payment_amount": amount,
			"payment_id":     gorm.Expr("CASE WHEN payment_id = '' THEN ? ELSE payment_id END", paymentID),
		}).Error
}

func (r *gormRepository) MarkPaymentFailed(id string) error {
	return r.db.Model(&models.Payment{}).
		Where("id = ? AND status <> ?", id, models.PaymentStatusSucceeded).
		Update("status", models.PaymentStatusFailed).Error
}
