package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mdnexus/nexus-server/app/controllers"
	"github.com/mdnexus/nexus-server/internal/pkg/cache"
	"github.com/mdnexus/nexus-server/internal/pkg/config"
	"github.com/mdnexus/nexus-server/internal/pkg/database"
	"github.com/mdnexus/nexus-server/internal/pkg/mailer"
	"github.com/mdnexus/nexus-server/internal/pkg/notify"
	"github.com/mdnexus/nexus-server/internal/pkg/payments"
	"github.com/mdnexus/nexus-server/internal/pkg/router"
	"github.com/mdnexus/nexus-server/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	app := NewApplication(cfg)
	err := app.Listen(fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort))
	log.Fatal(err)
}

func NewApplication(cfg *config.Config) *fiber.App {
	database.SetupDatabase(cfg)
	cache.SetupCache(cfg)

	db := database.GetDB()

	var sender mailer.Sender = mailer.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom, cfg.MailReplyTo)
	if cfg.ResendAPIKey == "" && cfg.SMTPHost != "" {
		fiberlog.Info("[App] No Resend API key, falling back to SMTP delivery")
		sender = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, cfg.MailReplyTo)
	}
	gateway := payments.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	paymentSvc := payments.NewServiceFromDB(db, gateway, cfg.FrontendURL)
	notifySvc := notify.NewServiceFromDB(db, sender, cfg.FrontendURL)

	var store *storage.Client
	if cfg.S3AccessKeyID != "" {
		var err error
		store, err = storage.NewClient(cfg)
		if err != nil {
			fiberlog.Errorf("[App] Document storage unavailable: %v", err)
			store = nil
		}
	} else {
		fiberlog.Warn("[App] S3 credentials not set, document uploads disabled")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 30 * 1024 * 1024,
	})
	app.Use(recover.New(), logger.New())

	router.InstallRouter(app, router.Controllers{
		Intake:  controllers.NewIntakeController(db, notifySvc, paymentSvc),
		Upload:  controllers.NewUploadController(db, store),
		Webhook: controllers.NewWebhookController(paymentSvc),
		Notify:  controllers.NewNotifyController(notifySvc),
		Email:   controllers.NewEmailController(sender),

		InternalAPIKey: cfg.InternalAPIKey,
	})

	return app
}
