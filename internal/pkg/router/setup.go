package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mdnexus/nexus-server/app/controllers"
)

// Router installs a group of routes on the fiber app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// Controllers carries the wired controllers the routers hand requests to,
// plus the shared key guarding the internal endpoints.
type Controllers struct {
	Intake  *controllers.IntakeController
	Upload  *controllers.UploadController
	Webhook *controllers.WebhookController
	Notify  *controllers.NotifyController
	Email   *controllers.EmailController

	InternalAPIKey string
}

func InstallRouter(app *fiber.App, c Controllers) {
	setup(app, NewApiRouter(c), NewHookRouter(c))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
