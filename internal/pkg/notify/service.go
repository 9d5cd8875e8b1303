package notify

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/mdnexus/nexus-server/app/models"
	"github.com/mdnexus/nexus-server/internal/pkg/mailer"
)

// Service sends the user-confirmation and admin-notification emails for new
// form submissions and contacts. Every send is best effort: each attempt is
// recorded as one EmailLog row and a failure never halts the pipeline or
// prevents the remaining recipients from being attempted.
type Service struct {
	repo        Repository
	sender      mailer.Sender
	frontendURL string
}

// NewService creates a notification service from injected collaborators.
func NewService(repo Repository, sender mailer.Sender, frontendURL string) *Service {
	return &Service{repo: repo, sender: sender, frontendURL: strings.TrimSuffix(frontendURL, "/")}
}

// NewServiceFromDB creates a notification service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, sender mailer.Sender, frontendURL string) *Service {
	return NewService(NewRepository(db), sender, frontendURL)
}

// NotifyFormSubmission dispatches both renders for a new form submission.
func (s *Service) NotifyFormSubmission(ctx context.Context, sub *models.FormSubmission) {
	s.sendFormUserConfirmation(ctx, sub)
	s.sendFormAdminNotifications(ctx, sub)
}

// NotifyContact dispatches both renders for a new contact message.
func (s *Service) NotifyContact(ctx context.Context, contact *models.Contact) {
	s.sendContactUserConfirmation(ctx, contact)
	s.sendContactAdminNotifications(ctx, contact)
}

func (s *Service) sendFormUserConfirmation(ctx context.Context, sub *models.FormSubmission) {
	subject := "Form Submission Received - " + models.FormTypeLabel(sub.FormType)
	entry := &models.EmailLog{
		FormSubmissionID: sub.ID,
		RecipientEmail:   sub.Email,
		RecipientName:    sub.FullName,
		EmailType:        models.EmailTypeUserConfirmation,
		Subject:          subject,
	}

	html, err := renderTemplate(userConfirmationTmpl, newFormEmailData(sub, s.adminFormURL()))
	if err != nil {
		log.Errorf("[Notify] Error rendering user confirmation for %s: %v", sub.ID, err)
		s.logFailure(entry, err)
		return
	}

	s.attempt(ctx, entry, subject, html)
}

func (s *Service) sendFormAdminNotifications(ctx context.Context, sub *models.FormSubmission) {
	admins, err := s.repo.ActiveAdminEmails(CategoryFormSubmission)
	if err != nil {
		log.Errorf("[Notify] Error loading admin recipients: %v", err)
		return
	}
	if len(admins) == 0 {
		log.Infof("[Notify] No active admins to notify")
		return
	}

	subject := "New " + models.FormTypeLabel(sub.FormType) + " Submission from " + sub.FullName
	html, err := renderTemplate(adminNotificationTmpl, newFormEmailData(sub, s.adminFormURL()))
	if err != nil {
		log.Errorf("[Notify] Error rendering admin notification for %s: %v", sub.ID, err)
		return
	}

	for _, admin := range admins {
		entry := &models.EmailLog{
			FormSubmissionID: sub.ID,
			RecipientEmail:   admin,
			EmailType:        models.EmailTypeAdminNotification,
			Subject:          subject,
		}
		s.attempt(ctx, entry, subject, html)
	}
}

func (s *Service) sendContactUserConfirmation(ctx context.Context, contact *models.Contact) {
	subject := "Thank you for contacting Military Disability Nexus"
	entry := &models.EmailLog{
		ContactID:      contact.ID,
		RecipientEmail: contact.Email,
		RecipientName:  contact.Name,
		EmailType:      models.EmailTypeUserConfirmation,
		Subject:        subject,
	}

	html, err := renderTemplate(contactConfirmationTmpl, newContactEmailData(contact, s.adminContactURL()))
	if err != nil {
		log.Errorf("[Notify] Error rendering contact confirmation for %s: %v", contact.ID, err)
		s.logFailure(entry, err)
		return
	}

	s.attempt(ctx, entry, subject, html)
}

func (s *Service) sendContactAdminNotifications(ctx context.Context, contact *models.Contact) {
	admins, err := s.repo.ActiveAdminEmails(CategoryContact)
	if err != nil {
		log.Errorf("[Notify] Error loading admin recipients: %v", err)
		return
	}
	if len(admins) == 0 {
		log.Infof("[Notify] No active admins to notify")
		return
	}

	subject := "New Contact Form Submission from " + contact.Name
	html, err := renderTemplate(contactAdminTmpl, newContactEmailData(contact, s.adminContactURL()))
	if err != nil {
		log.Errorf("[Notify] Error rendering contact admin notification for %s: %v", contact.ID, err)
		return
	}

	for _, admin := range admins {
		entry := &models.EmailLog{
			ContactID:      contact.ID,
			RecipientEmail: admin,
			EmailType:      models.EmailTypeAdminNotification,
			Subject:        subject,
		}
		s.attempt(ctx, entry, subject, html)
	}
}

// attempt runs one independent send and records its outcome. The log write
// itself is best effort; a failed insert only produces a server log line.
func (s *Service) attempt(ctx context.Context, entry *models.EmailLog, subject, html string) {
	serviceID, err := s.sender.Send(ctx, mailer.SendRequest{
		To:      []string{entry.RecipientEmail},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		log.Errorf("[Notify] Error sending to %s: %v", entry.RecipientEmail, err)
		s.logFailure(entry, err)
		return
	}

	now := time.Now()
	entry.Status = models.EmailStatusSent
	entry.EmailServiceID = serviceID
	entry.SentAt = &now
	if err := s.repo.CreateEmailLog(entry); err != nil {
		log.Errorf("[Notify] Error writing email log: %v", err)
	}
}

func (s *Service) logFailure(entry *models.EmailLog, sendErr error) {
	now := time.Now()
	entry.Status = models.EmailStatusFailed
	entry.ErrorMessage = sendErr.Error()
	entry.FailedAt = &now
	if err := s.repo.CreateEmailLog(entry); err != nil {
		log.Errorf("[Notify] Error writing email log: %v", err)
	}
}

func (s *Service) adminFormURL() string {
	return s.frontendURL + "/admin/form-submissions"
}

func (s *Service) adminContactURL() string {
	return s.frontendURL + "/admin/contacts"
}
