package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/mdnexus/nexus-server/internal/pkg/payments"
)

// WebhookController receives Stripe webhook deliveries.
type WebhookController struct {
	payments *payments.Service
}

func NewWebhookController(svc *payments.Service) *WebhookController {
	return &WebhookController{payments: svc}
}

// HandleStripeWebhook verifies the delivery signature, routes the event and
// always acknowledges with 200 once the event is accepted; a non-2xx would
// make Stripe redeliver events we have no use for.
func (wc *WebhookController) HandleStripeWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)

	signature := strings.TrimSpace(c.Get("Stripe-Signature"))
	if signature == "" {
		return c.Status(fiber.StatusBadRequest).SendString("No signature")
	}

	event, err := wc.payments.ParseEvent(rawBody, signature)
	if err != nil {
		log.Errorf("[Webhook] Signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Webhook Error: " + err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := wc.payments.ProcessEvent(ctx, event); err != nil {
		log.Errorf("[Webhook] Error processing webhook: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"received": true})
}
