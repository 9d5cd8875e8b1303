package controllers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/mdnexus/nexus-server/app/models"
	"github.com/mdnexus/nexus-server/internal/pkg/notify"
)

// NotifyController receives row-insert hook invocations and fans them out to
// the notification dispatcher. The payload mirrors the database trigger
// shape: {"record": {...row fields...}}.
type NotifyController struct {
	notify *notify.Service
}

func NewNotifyController(svc *notify.Service) *NotifyController {
	return &NotifyController{notify: svc}
}

type hookPayload struct {
	Record json.RawMessage `json:"record"`
}

func (p hookPayload) empty() bool {
	return len(p.Record) == 0 || string(p.Record) == "null"
}

// HandleFormSubmissionHook dispatches notifications for a new form
// submission. Individual send failures are recorded in email_logs, never
// surfaced here.
func (nc *NotifyController) HandleFormSubmissionHook(c *fiber.Ctx) error {
	var payload hookPayload
	if err := c.BodyParser(&payload); err != nil || payload.empty() {
		log.Errorf("[Notify] Notification error: no record provided")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "No record provided",
		})
	}

	var submission models.FormSubmission
	if err := json.Unmarshal(payload.Record, &submission); err != nil {
		log.Errorf("[Notify] Notification error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	nc.notify.NotifyFormSubmission(ctx, &submission)

	return c.JSON(fiber.Map{"success": true, "message": "Notifications sent"})
}

// HandleContactHook dispatches notifications for a new contact message.
func (nc *NotifyController) HandleContactHook(c *fiber.Ctx) error {
	var payload hookPayload
	if err := c.BodyParser(&payload); err != nil || payload.empty() {
		log.Errorf("[Notify] Notification error: no record provided")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "No record provided",
		})
	}

	var contact models.Contact
	if err := json.Unmarshal(payload.Record, &contact); err != nil {
		log.Errorf("[Notify] Notification error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	nc.notify.NotifyContact(ctx, &contact)

	return c.JSON(fiber.Map{"success": true, "message": "Notifications sent"})
}
