package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mdnexus/nexus-server/internal/pkg/middleware"
)

// HookRouter installs the inbound callback endpoints: the Stripe webhook and
// the database row hooks that trigger notification emails. These are not rate
// limited; Stripe retries aggressively and rejected retries pile up.
type HookRouter struct {
	controllers Controllers
}

func (h HookRouter) InstallRouter(app *fiber.App) {
	app.Post("/webhooks/stripe", h.controllers.Webhook.HandleStripeWebhook)

	hooks := app.Group("/hooks", middleware.APIKeyAuthMiddleware(h.controllers.InternalAPIKey))
	hooks.Post("/form-submissions", h.controllers.Notify.HandleFormSubmissionHook)
	hooks.Post("/contacts", h.controllers.Notify.HandleContactHook)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

func NewHookRouter(c Controllers) *HookRouter {
	return &HookRouter{controllers: c}
}
