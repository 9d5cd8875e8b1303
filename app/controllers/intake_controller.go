package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/mdnexus/nexus-server/app/models"
	"github.com/mdnexus/nexus-server/internal/pkg/notify"
	"github.com/mdnexus/nexus-server/internal/pkg/payments"
)

// IntakeController handles the public intake API: form submissions, contact
// messages and checkout initiation. Row creation here is what the webhook
// pipeline later updates.
type IntakeController struct {
	db       *gorm.DB
	notify   *notify.Service
	payments *payments.Service
	validate *validator.Validate
}

func NewIntakeController(db *gorm.DB, notifySvc *notify.Service, paymentSvc *payments.Service) *IntakeController {
	return &IntakeController{
		db:       db,
		notify:   notifySvc,
		payments: paymentSvc,
		validate: validator.New(),
	}
}

type formSubmissionRequest struct {
	FormType       string          `json:"form_type" validate:"required,max=50"`
	FullName       string          `json:"full_name" validate:"required,min=2,max=200"`
	Email          string          `json:"email" validate:"required,email,max=200"`
	Phone          string          `json:"phone" validate:"max=50"`
	FormData       json.RawMessage `json:"form_data"`
	RequiresUpload bool            `json:"requires_upload"`
}

type contactRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=200"`
	Email           string `json:"email" validate:"required,email,max=200"`
	Phone           string `json:"phone" validate:"max=50"`
	Subject         string `json:"subject" validate:"required,max=255"`
	Message         string `json:"message" validate:"required"`
	ServiceInterest string `json:"service_interest" validate:"max=100"`
}

type checkoutRequest struct {
	FormSubmissionID string `json:"form_submission_id" validate:"required,uuid4"`
	Amount           int64  `json:"amount" validate:"required,gt=0"`
	Currency         string `json:"currency" validate:"omitempty,len=3"`
	ProductName      string `json:"product_name" validate:"max=200"`
}

// HandleCreateFormSubmission stores a new intake form and fires the
// notification dispatch. Notification failures are observability data, they
// never fail the intake itself.
func (ic *IntakeController) HandleCreateFormSubmission(c *fiber.Ctx) error {
	var req formSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := ic.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	formData := req.FormData
	if len(formData) == 0 {
		formData = json.RawMessage("{}")
	}

	submission := models.FormSubmission{
		FormType:       req.FormType,
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		FormData:       models.JSON(formData),
		RequiresUpload: req.RequiresUpload,
		Status:         "new",
	}
	if err := ic.db.Create(&submission).Error; err != nil {
		log.Errorf("[Intake] Error creating form submission: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create form submission"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ic.notify.NotifyFormSubmission(ctx, &submission)

	return c.Status(fiber.StatusCreated).JSON(submission)
}

// HandleCreateContact stores a new contact message and fires the
// notification dispatch.
func (ic *IntakeController) HandleCreateContact(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := ic.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	contact := models.Contact{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Subject:         req.Subject,
		Message:         req.Message,
		ServiceInterest: req.ServiceInterest,
		Status:          "new",
	}
	if err := ic.db.Create(&contact).Error; err != nil {
		log.Errorf("[Intake] Error creating contact: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create contact"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ic.notify.NotifyContact(ctx, &contact)

	return c.Status(fiber.StatusCreated).JSON(contact)
}

// HandleCreateCheckout opens a Stripe Checkout session for a submission and
// returns the redirect URL.
func (ic *IntakeController) HandleCreateCheckout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := ic.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	result, err := ic.payments.CreateCheckout(ctx, payments.CheckoutInput{
		FormSubmissionID: req.FormSubmissionID,
		Amount:           req.Amount,
		Currency:         req.Currency,
		ProductName:      req.ProductName,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "form submission not found"})
		}
		log.Errorf("[Intake] Error creating checkout: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create checkout session"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment_id":          result.PaymentID,
		"checkout_session_id": result.CheckoutSessionID,
		"checkout_url":        result.CheckoutURL,
	})
}
