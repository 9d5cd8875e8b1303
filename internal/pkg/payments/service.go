package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"

	"github.com/mdnexus/nexus-server/app/models"
)

// Service applies Stripe webhook events to local payment state and starts
// new Checkout purchases. All event handling is idempotent: Stripe delivers
// at least once, and a re-applied transition is a no-op.
type Service struct {
	repo        Repository
	gateway     Gateway
	frontendURL string
}

// NewService creates a payment service from injected collaborators.
func NewService(repo Repository, gateway Gateway, frontendURL string) *Service {
	return &Service{repo: repo, gateway: gateway, frontendURL: strings.TrimSuffix(frontendURL, "/")}
}

// NewServiceFromDB creates a payment service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, gateway Gateway, frontendURL string) *Service {
	return NewService(NewRepository(db), gateway, frontendURL)
}

// ParseEvent verifies the webhook signature and decodes the event. No event
// is ever processed without passing this check.
func (s *Service) ParseEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return s.gateway.ConstructEvent(payload, sigHeader)
}

// ProcessEvent routes one verified event to its handler. Unknown event types
// are logged and accepted so Stripe does not keep redelivering them. Handler
// persistence failures are logged, never returned: redelivery of the same
// event is the recovery mechanism.
func (s *Service) ProcessEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return fmt.Errorf("unmarshal checkout session: %w", err)
		}
		s.handleCheckoutCompleted(ctx, &session)
	case stripe.EventTypePaymentIntentSucceeded:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return fmt.Errorf("unmarshal payment intent: %w", err)
		}
		s.handlePaymentSucceeded(ctx, &intent)
	case stripe.EventTypePaymentIntentPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return fmt.Errorf("unmarshal payment intent: %w", err)
		}
		s.handlePaymentFailed(ctx, &intent)
	default:
		log.Infof("[Payments] Unhandled event type: %s", event.Type)
	}
	return nil
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, session *stripe.CheckoutSession) {
	formSubmissionID := session.Metadata["formSubmissionId"]
	if formSubmissionID == "" {
		log.Errorf("[Payments] No formSubmissionId in session metadata (session %s)", session.ID)
		return
	}

	payment, err := s.repo.FindPaymentByCheckoutSession(session.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// The initiating request may not have committed yet; Stripe will
		// redeliver and the row will exist then.
		log.Warnf("[Payments] No payment row for checkout session %s, skipping", session.ID)
	case err != nil:
		log.Errorf("[Payments] Payment lookup failed for session %s: %v", session.ID, err)
	default:
		if models.PaymentStatusRank(payment.Status) <= models.PaymentStatusRank(models.PaymentStatusProcessing) {
			updates := map[string]interface{}{
				"status": models.PaymentStatusProcessing,
			}
			if session.Customer != nil {
				updates["stripe_customer_id"] = session.Customer.ID
			}
			if session.PaymentIntent != nil {
				updates["stripe_payment_intent_id"] = session.PaymentIntent.ID
			}
			if err := s.repo.UpdatePaymentFields(payment.ID, updates); err != nil {
				log.Errorf("[Payments] Error updating payment %s: %v", payment.ID, err)
			}
		}
	}

	// The submission update is attempted regardless of the payment outcome;
	// the two tables are only eventually consistent.
	if err := s.repo.MarkSubmissionPaymentPending(formSubmissionID); err != nil {
		log.Errorf("[Payments] Error updating form submission %s: %v", formSubmissionID, err)
	}
}

func (s *Service) handlePaymentSucceeded(ctx context.Context, intent *stripe.PaymentIntent) {
	detail := s.fetchPaymentMethodDetail(ctx, intent)
	receiptURL := s.fetchReceiptURL(ctx, intent)

	payment, err := s.repo.FindPaymentByPaymentIntent(intent.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warnf("[Payments] No payment row for payment intent %s, skipping", intent.ID)
		return
	}
	if err != nil {
		log.Errorf("[Payments] Payment lookup failed for intent %s: %v", intent.ID, err)
		return
	}

	now := time.Now()
	if err := s.repo.UpdatePaymentFields(payment.ID, map[string]interface{}{
		"status":              models.PaymentStatusSucceeded,
		"payment_method_type": detail.Type,
		"card_brand":          detail.CardBrand,
		"card_last4":          detail.CardLast4,
		"receipt_url":         receiptURL,
		"paid_at":             &now,
	}); err != nil {
		log.Errorf("[Payments] Error updating payment %s: %v", payment.ID, err)
	}

	if err := s.repo.AttachPaymentToSubmission(payment.FormSubmissionID, payment.ID, payment.Amount); err != nil {
		log.Errorf("[Payments] Error updating form submission %s: %v", payment.FormSubmissionID, err)
	}
}

func (s *Service) handlePaymentFailed(ctx context.Context, intent *stripe.PaymentIntent) {
	payment, err := s.repo.FindPaymentByPaymentIntent(intent.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warnf("[Payments] No payment row for payment intent %s, skipping", intent.ID)
		return
	}
	if err != nil {
		log.Errorf("[Payments] Payment lookup failed for intent %s: %v", intent.ID, err)
		return
	}

	if err := s.repo.MarkPaymentFailed(payment.ID); err != nil {
		log.Errorf("[Payments] Error updating payment %s: %v", payment.ID, err)
	}
}

// fetchPaymentMethodDetail enriches the payment row with card metadata.
// Failures degrade to empty fields, they never block the status update.
func (s *Service) fetchPaymentMethodDetail(ctx context.Context, intent *stripe.PaymentIntent) paymentMethodDetail {
	var detail paymentMethodDetail
	if intent.PaymentMethod == nil || intent.PaymentMethod.ID == "" {
		return detail
	}

	pm, err := s.gateway.GetPaymentMethod(ctx, intent.PaymentMethod.ID)
	if err != nil {
		log.Errorf("[Payments] Error retrieving payment method %s: %v", intent.PaymentMethod.ID, err)
		return detail
	}

	detail.Type = string(pm.Type)
	if pm.Card != nil {
		detail.CardBrand = string(pm.Card.Brand)
		detail.CardLast4 = pm.Card.Last4
	}
	return detail
}

// fetchReceiptURL resolves the receipt URL from the latest charge, fetching
// the charge when the webhook payload carries only its id. Best effort.
func (s *Service) fetchReceiptURL(ctx context.Context, intent *stripe.PaymentIntent) string {
	if intent.LatestCharge == nil {
		return ""
	}
	if intent.LatestCharge.ReceiptURL != "" {
		return intent.LatestCharge.ReceiptURL
	}
	if intent.LatestCharge.ID == "" {
		return ""
	}

	charge, err := s.gateway.GetCharge(ctx, intent.LatestCharge.ID)
	if err != nil {
		log.Errorf("[Payments] Error retrieving charge %s: %v", intent.LatestCharge.ID, err)
		return ""
	}
	return charge.ReceiptURL
}

// CreateCheckout opens a Stripe Checkout session for a form submission and
// records the pending payment row the webhook pipeline will later advance.
func (s *Service) CreateCheckout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if in.FormSubmissionID == "" || in.Amount <= 0 {
		return nil, errors.New("form_submission_id and a positive amount are required")
	}
	currency := strings.ToLower(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "usd"
	}

	submission, err := s.repo.FindFormSubmission(in.FormSubmissionID)
	if err != nil {
		return nil, fmt.Errorf("form submission lookup: %w", err)
	}

	productName := in.ProductName
	if productName == "" {
		productName = models.FormTypeLabel(submission.FormType)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(submission.Email),
		SuccessURL:    stripe.String(s.frontendURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(s.frontendURL + "/payment/cancelled"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(in.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(productName),
					},
				},
			},
		},
	}
	params.AddMetadata("formSubmissionId", submission.ID)

	session, err := s.gateway.NewCheckoutSession(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	payment := &models.Payment{
		FormSubmissionID:        submission.ID,
		StripeCheckoutSessionID: session.ID,
		Status:                  models.PaymentStatusPending,
		Amount:                  in.Amount,
		Currency:                currency,
	}
	if session.PaymentIntent != nil {
		payment.StripePaymentIntentID = session.PaymentIntent.ID
	}
	if err := s.repo.CreatePayment(payment); err != nil {
		return nil, fmt.Errorf("create payment row: %w", err)
	}

	return &CheckoutResult{
		PaymentID:         payment.ID,
		CheckoutSessionID: session.ID,
		CheckoutURL:       session.URL,
	}, nil
}
