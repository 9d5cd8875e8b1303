package payments

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"

	"github.com/mdnexus/nexus-server/app/models"
)

type fakeRepository struct {
	payments    map[string]*models.Payment
	submissions map[string]*models.FormSubmission

	created         []*models.Payment
	updates         map[string][]map[string]interface{}
	pendingMarks    []string
	attached        []string
	failedMarks     []string
	findPaymentErr  error
	createErr       error
	updateErr       error
	submissionCalls int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		payments:    map[string]*models.Payment{},
		submissions: map[string]*models.FormSubmission{},
		updates:     map[string][]map[string]interface{}{},
	}
}

func (r *fakeRepository) CreatePayment(p *models.Payment) error {
	if r.createErr != nil {
		return r.createErr
	}
	if p.ID == "" {
		p.ID = "pay-created"
	}
	r.created = append(r.created, p)
	r.payments[p.ID] = p
	return nil
}

func (r *fakeRepository) FindPaymentByCheckoutSession(sessionID string) (*models.Payment, error) {
	if r.findPaymentErr != nil {
		return nil, r.findPaymentErr
	}
	for _, p := range r.payments {
		if p.StripeCheckoutSessionID == sessionID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepository) FindPaymentByPaymentIntent(intentID string) (*models.Payment, error) {
	if r.findPaymentErr != nil {
		return nil, r.findPaymentErr
	}
	for _, p := range r.payments {
		if p.StripePaymentIntentID == intentID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepository) UpdatePaymentFields(id string, updates map[string]interface{}) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates[id] = append(r.updates[id], updates)
	if p, ok := r.payments[id]; ok {
		if status, ok := updates["status"].(string); ok {
			p.Status = status
		}
	}
	return nil
}

func (r *fakeRepository) FindFormSubmission(id string) (*models.FormSubmission, error) {
	r.submissionCalls++
	if f, ok := r.submissions[id]; ok {
		return f, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepository) MarkSubmissionPaymentPending(id string) error {
	r.pendingMarks = append(r.pendingMarks, id)
	return nil
}

func (r *fakeRepository) AttachPaymentToSubmission(submissionID, paymentID string, amount int64) error {
	r.attached = append(r.attached, submissionID)
	return nil
}

func (r *fakeRepository) MarkPaymentFailed(id string) error {
	r.failedMarks = append(r.failedMarks, id)
	return nil
}

type fakeGateway struct {
	event            stripe.Event
	constructErr     error
	paymentMethod    *stripe.PaymentMethod
	paymentMethodErr error
	charge           *stripe.Charge
	chargeErr        error
	session          *stripe.CheckoutSession
	sessionErr       error
	sessionParams    *stripe.CheckoutSessionParams
}

func (g *fakeGateway) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	if g.constructErr != nil {
		return stripe.Event{}, g.constructErr
	}
	return g.event, nil
}

func (g *fakeGateway) GetPaymentMethod(ctx context.Context, id string) (*stripe.PaymentMethod, error) {
	if g.paymentMethodErr != nil {
		return nil, g.paymentMethodErr
	}
	return g.paymentMethod, nil
}

func (g *fakeGateway) GetCharge(ctx context.Context, id string) (*stripe.Charge, error) {
	if g.chargeErr != nil {
		return nil, g.chargeErr
	}
	return g.charge, nil
}

func (g *fakeGateway) NewCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	g.sessionParams = params
	if g.sessionErr != nil {
		return nil, g.sessionErr
	}
	return g.session, nil
}

func eventWithRaw(t *testing.T, eventType stripe.EventType, payload interface{}) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return stripe.Event{
		Type: eventType,
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestProcessEventCheckoutCompleted(t *testing.T) {
	repo := newFakeRepository()
	repo.payments["pay-1"] = &models.Payment{
		ID:                      "pay-1",
		FormSubmissionID:        "sub-1",
		StripeCheckoutSessionID: "cs_123",
		Status:                  models.PaymentStatusPending,
	}
	svc := NewService(repo, &fakeGateway{}, "https://example.com")

	event := eventWithRaw(t, stripe.EventTypeCheckoutSessionCompleted, map[string]interface{}{
		"id":             "cs_123",
		"metadata":       map[string]string{"formSubmissionId": "sub-1"},
		"customer":       map[string]string{"id": "cus_9"},
		"payment_intent": map[string]string{"id": "pi_9"},
	})

	require.NoError(t, svc.ProcessEvent(context.Background(), event))

	require.Len(t, repo.updates["pay-1"], 1)
	assert.Equal(t, models.PaymentStatusProcessing, repo.updates["pay-1"][0]["status"])
	assert.Equal(t, "cus_9", repo.updates["pay-1"][0]["stripe_customer_id"])
	assert.Equal(t, "pi_9", repo.updates["pay-1"][0]["stripe_payment_intent_id"])
	assert.Equal(t, []string{"sub-1"}, repo.pendingMarks)
}

func TestProcessEventCheckoutCompletedIsIdempotent(t *testing.T) {
	repo := newFakeRepository()
	repo.payments["pay-1"] = &models.Payment{
		ID:                      "pay-1",
		FormSubmissionID:        "sub-1",
		StripeCheckoutSessionID: "cs_123",
		Status:                  models.PaymentStatusSucceeded,
	}
	svc := NewService(repo, &fakeGateway{}, "https://example.com")

	event := eventWithRaw(t, stripe.EventTypeCheckoutSessionCompleted, map[string]interface{}{
		"id":       "cs_123",
		"metadata": map[string]string{"formSubmissionId": "sub-1"},
	})

	require.NoError(t, svc.ProcessEvent(context.Background(), event))

	// A succeeded payment never regresses to processing.
	assert.Empty(t, repo.updates["pay-1"])
	// The submission update is still attempted; its WHERE guard is the gate.
	assert.Equal(t, []string{"sub-1"}, repo.pendingMarks)
}

func TestProcessEventCheckoutCompletedMissingRow(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, &fakeGateway{}, "https://example.com")

	event := eventWithRaw(t, stripe.EventTypeCheckoutSessionCompleted, map[string]interface{}{
		"id":       "cs_missing",
		"metadata": map[string]string{"formSubmissionId": "sub-1"},
	})

	require.NoError(t, svc.ProcessEvent(context.Background(), event))
	assert.Empty(t, repo.updates)
	assert.Equal(t, []string{"sub-1"}, repo.pendingMarks)
}

func TestProcessEventCheckoutCompletedWithoutMetadata(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, &fakeGateway{}, "https://example.com")

	event := eventWithRaw(t, stripe.EventTypeCheckoutSessionCompleted, map[string]interface{}{
		"id": "cs_123",
	})

	require.NoError(t, svc.ProcessEvent(context.Background(), event))
	assert.Empty(t, repo.updates)
	assert.Empty(t, repo.pendingMarks)
}

func TestProcessEventPaymentSucceeded(t *testing.T) {
	repo := newFakeRepository()
	repo.payments["pay-1"] = &models.Payment{
		ID:                    "pay-1",
		FormSubmissionID:      "sub-1",
		StripePaymentIntentID: "pi_123",
		Status:                models.PaymentStatusProcessing,
		Amount:                19900,
	}
	gateway := &fakeGateway{
		paymentMethod: &stripe.PaymentMethod{
			Type: stripe.PaymentMethodTypeCard,
			Card: &stripe.PaymentMethodCard{Brand: stripe.PaymentMethodCardBrandVisa, Last4: "4242"},
		},
	}
	svc := NewService(repo, gateway, "https://example.com")

	event := eventWithRaw(t, stripe.EventTypePaymentIntentSucceeded, map[string]interface{}{
		"id":             "pi_123",
		"payment_method": map[string]string{"id": "pm_1"},
		"latest_charge":  map[string]string{"id": "ch_1", "receipt_url": "https://stripe.test/receipt"},
	})

	require.NoError(t, svc.ProcessEvent(context.Background(), event))

	require.Len(t, repo.updates["pay-1"], 1)
	updates := repo.updates["pay-1"][0]
	assert.Equal(t, models.PaymentStatusSucceeded, updates["status"])
	assert.Equal(t, "card", updates["payment_method_type"])
	assert.Equal(t, "visa", updates["card_brand"])
	assert.Equal(t, "4242", updates["card_last4"])
	assert.Equal(t, "https://stripe.test/receipt", updates["receipt_url"])
	assert.NotNil(t, updates["paid_at"])
	assert.Equal(t, []string{"sub-1"}, repo.attached)
}

func TestProcessEventPaymentSucceededDegradesEnrichment(t *testing.T) {
	repo := newFakeRepository()
	repo.payments["pay-1"] = &models.Payment{
		ID:                    "pay-1",
		FormSubmissionID:      "sub-1",
		StripePaymentIntentID: "pi_123",
		Status:                models.PaymentStatusProcessing,
	}
	gateway := &fakeGateway{
		paymentMethodErr: errors.New("stripe api down"),
		chargeErr:        errors.New("stripe api down"),
	}
	svc := NewService(repo, gateway, "https://example.com")

	event := eventWithRaw(t, stripe.EventTypePaymentIntentSucceeded, map[string]interface{}{
		"id":             "pi_123",
		"payment_method": map[string]string{"id": "pm_1"},
		"latest_charge":  map[string]string{"id": "ch_1"},
	})

	require.NoError(t, svc.ProcessEvent(context.Background(), event))

	// Enrichment failures leave the card fields empty but the status still
	// advances and the submission is still attached.
	require.Len(t, repo.updates["pay-1"], 1)
	updates := repo.updates["pay-1"][0]
	assert.Equal(t, models.PaymentStatusSucceeded, updates["status"])
	assert.Equal(t, "", updates["payment_method_type"])
	assert.Equal(t, "", updates["card_brand"])
	assert.Equal(t, "", updates["receipt_url"])
	assert.Equal(t, []string{"sub-1"}, repo.attached)
}

func TestProcessEventPaymentSucceededMissingRow(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, &fakeGateway{}, "https://example.com")

	event := eventWithRaw(t, stripe.EventTypePaymentIntentSucceeded, map[string]interface{}{
		"id": "pi_missing",
	})

	require.NoError(t, svc.ProcessEvent(context.Background(), event))
	assert.Empty(t, repo.updates)
	assert.Empty(t, repo.attached)
}

func TestProcessEventPaymentFailed(t *testing.T) {
	repo := newFakeRepository()
	repo.payments["pay-1"] = &models.Payment{
		ID:                    "pay-1",
		StripePaymentIntentID: "pi_123",
		Status:                models.PaymentStatusProcessing,
	}
	svc := NewService(repo, &fakeGateway{}, "https://example.com")

	event := eventWithRaw(t, stripe.EventTypePaymentIntentPaymentFailed, map[string]interface{}{
		"id": "pi_123",
	})

	require.NoError(t, svc.ProcessEvent(context.Background(), event))
	assert.Equal(t, []string{"pay-1"}, repo.failedMarks)
}

func TestProcessEventUnknownTypeIsAccepted(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, &fakeGateway{}, "https://example.com")

	event := stripe.Event{
		Type: "customer.subscription.updated",
		Data: &stripe.EventData{Raw: []byte(`{}`)},
	}

	require.NoError(t, svc.ProcessEvent(context.Background(), event))
	assert.Empty(t, repo.updates)
	assert.Empty(t, repo.pendingMarks)
	assert.Empty(t, repo.failedMarks)
}

func TestProcessEventMalformedPayload(t *testing.T) {
	svc := NewService(newFakeRepository(), &fakeGateway{}, "https://example.com")

	event := stripe.Event{
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Raw: []byte(`not json`)},
	}

	assert.Error(t, svc.ProcessEvent(context.Background(), event))
}

func TestCreateCheckout(t *testing.T) {
	repo := newFakeRepository()
	repo.submissions["sub-1"] = &models.FormSubmission{
		ID:       "sub-1",
		FormType: models.FormTypeNexusLetter,
		Email:    "vet@example.com",
	}
	gateway := &fakeGateway{
		session: &stripe.CheckoutSession{
			ID:  "cs_new",
			URL: "https://checkout.stripe.test/cs_new",
		},
	}
	svc := NewService(repo, gateway, "https://example.com/")

	result, err := svc.CreateCheckout(context.Background(), CheckoutInput{
		FormSubmissionID: "sub-1",
		Amount:           19900,
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_new", result.CheckoutSessionID)
	assert.Equal(t, "https://checkout.stripe.test/cs_new", result.CheckoutURL)

	require.NotNil(t, gateway.sessionParams)
	assert.Equal(t, "vet@example.com", *gateway.sessionParams.CustomerEmail)
	assert.Equal(t, "https://example.com/payment/success?session_id={CHECKOUT_SESSION_ID}", *gateway.sessionParams.SuccessURL)
	assert.Equal(t, "sub-1", gateway.sessionParams.Metadata["formSubmissionId"])
	require.Len(t, gateway.sessionParams.LineItems, 1)
	assert.Equal(t, "Nexus Letter", *gateway.sessionParams.LineItems[0].PriceData.ProductData.Name)
	assert.Equal(t, int64(19900), *gateway.sessionParams.LineItems[0].PriceData.UnitAmount)

	require.Len(t, repo.created, 1)
	assert.Equal(t, models.PaymentStatusPending, repo.created[0].Status)
	assert.Equal(t, "usd", repo.created[0].Currency)
	assert.Equal(t, "cs_new", repo.created[0].StripeCheckoutSessionID)
}

func TestCreateCheckoutValidation(t *testing.T) {
	svc := NewService(newFakeRepository(), &fakeGateway{}, "https://example.com")

	_, err := svc.CreateCheckout(context.Background(), CheckoutInput{Amount: 100})
	assert.Error(t, err)

	_, err = svc.CreateCheckout(context.Background(), CheckoutInput{FormSubmissionID: "sub-1"})
	assert.Error(t, err)
}

func TestCreateCheckoutUnknownSubmission(t *testing.T) {
	svc := NewService(newFakeRepository(), &fakeGateway{}, "https://example.com")

	_, err := svc.CreateCheckout(context.Background(), CheckoutInput{
		FormSubmissionID: "missing",
		Amount:           100,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
