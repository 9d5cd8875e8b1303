package payments

// CheckoutInput carries what the intake frontend needs to start a Stripe
// Checkout purchase for an existing form submission.
type CheckoutInput struct {
	FormSubmissionID string
	Amount           int64
	Currency         string
	ProductName      string
}

// CheckoutResult is returned to the frontend so it can redirect to Stripe.
type CheckoutResult struct {
	PaymentID         string
	CheckoutSessionID string
	CheckoutURL       string
}

// paymentMethodDetail is the subset of payment-method data denormalized onto
// the payment row. All fields stay empty when the secondary Stripe call fails.
type paymentMethodDetail struct {
	Type      string
	CardBrand string
	CardLast4 string
}
