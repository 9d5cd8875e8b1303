package controllers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/mdnexus/nexus-server/internal/pkg/mailer"
)

// EmailController exposes the internal email relay used by trusted callers.
type EmailController struct {
	sender mailer.Sender
}

func NewEmailController(sender mailer.Sender) *EmailController {
	return &EmailController{sender: sender}
}

// recipientList accepts either a single address or an array of addresses.
type recipientList []string

func (r *recipientList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = recipientList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*r = recipientList(many)
	return nil
}

type emailRequest struct {
	To      recipientList `json:"to"`
	Subject string        `json:"subject"`
	HTML    string        `json:"html"`
	Text    string        `json:"text"`
	From    string        `json:"from"`
	ReplyTo string        `json:"replyTo"`
}

// HandleSendEmail relays one transactional email. A missing API key or a
// missing required field is a caller/configuration error, reported as 500
// with the failure reason in the body.
func (ec *EmailController) HandleSendEmail(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	id, err := ec.sender.Send(ctx, mailer.SendRequest{
		To:      req.To,
		Subject: req.Subject,
		HTML:    req.HTML,
		Text:    req.Text,
		From:    req.From,
		ReplyTo: req.ReplyTo,
	})
	if err != nil {
		log.Errorf("[Email] Email send error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"id":      id,
		"message": "Email sent successfully",
	})
}
