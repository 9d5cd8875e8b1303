package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/mdnexus/nexus-server/internal/pkg/middleware"
)

type ApiRouter struct {
	controllers Controllers
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")
	v1.Post("/forms", h.controllers.Intake.HandleCreateFormSubmission)
	v1.Post("/contacts", h.controllers.Intake.HandleCreateContact)
	v1.Post("/checkout", h.controllers.Intake.HandleCreateCheckout)
	v1.Post("/forms/:id/documents", h.controllers.Upload.HandleUploadDocument)

	internalOnly := middleware.APIKeyAuthMiddleware(h.controllers.InternalAPIKey)
	v1.Get("/documents/:id/url", internalOnly, h.controllers.Upload.HandleDocumentURL)
	v1.Post("/send-email", internalOnly, h.controllers.Email.HandleSendEmail)
}

func NewApiRouter(c Controllers) *ApiRouter {
	return &ApiRouter{controllers: c}
}
