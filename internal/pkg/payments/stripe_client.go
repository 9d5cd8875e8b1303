package payments

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Gateway abstracts the Stripe API surface the pipeline touches, so the
// service can be tested against a fake.
type Gateway interface {
	// ConstructEvent verifies the webhook signature and returns the typed
	// event. Any error means the request must be rejected unprocessed.
	ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error)
	GetPaymentMethod(ctx context.Context, id string) (*stripe.PaymentMethod, error)
	GetCharge(ctx context.Context, id string) (*stripe.Charge, error)
	NewCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeGateway is the production Gateway backed by stripe-go.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

// NewStripeGateway creates a gateway from the configured secret key and
// webhook signing secret.
func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, webhookSecret: webhookSecret}
}

func (g *StripeGateway) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, g.webhookSecret)
}

func (g *StripeGateway) GetPaymentMethod(ctx context.Context, id string) (*stripe.PaymentMethod, error) {
	params := &stripe.PaymentMethodParams{}
	params.Context = ctx
	return g.api.PaymentMethods.Get(id, params)
}

func (g *StripeGateway) GetCharge(ctx context.Context, id string) (*stripe.Charge, error) {
	params := &stripe.ChargeParams{}
	params.Context = ctx
	return g.api.Charges.Get(id, params)
}

func (g *StripeGateway) NewCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params.Context = ctx
	return g.api.CheckoutSessions.New(params)
}
