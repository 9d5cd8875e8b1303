package notify

import (
	"html/template"
	"strings"
	"time"

	"github.com/mdnexus/nexus-server/app/models"
)

// ReferenceNumber renders the human-readable reference for a record: the
// first 8 characters of its id, upper-cased.
func ReferenceNumber(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

func formatSubmittedDate(t time.Time) string {
	return t.Format("January 2, 2006 3:04 PM")
}

type formEmailData struct {
	FullName        string
	Email           string
	Phone           string
	FormTypeLabel   string
	ReferenceNumber string
	SubmittedDate   string
	RequiresUpload  bool
	HasFormData     bool
	AdminURL        string
}

type contactEmailData struct {
	Name            string
	Email           string
	Phone           string
	Subject         string
	Message         string
	ServiceInterest string
	ReferenceNumber string
	SubmittedDate   string
	AdminURL        string
}

var userConfirmationTmpl = template.Must(template.New("user_confirmation").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Form Submission Received</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9fafb;">
  <div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="color: white; margin: 0; font-size: 28px;">Military Disability Nexus</h1>
  </div>

  <div style="background: white; padding: 30px; border-radius: 0 0 10px 10px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
    <h2 style="color: #1f2937; margin-top: 0;">Form Submission Received</h2>

    <p>Dear {{.FullName}},</p>

    <p>Thank you for submitting your <strong>{{.FormTypeLabel}}</strong> form. We have received your information and our medical team will begin reviewing your case.</p>

    <div style="background: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #667eea;">
      <h3 style="margin-top: 0; color: #667eea; font-size: 18px;">Submission Details</h3>
      <p style="margin: 8px 0;"><strong>Reference Number:</strong> {{.ReferenceNumber}}</p>
      <p style="margin: 8px 0;"><strong>Form Type:</strong> {{.FormTypeLabel}}</p>
      <p style="margin: 8px 0;"><strong>Submitted:</strong> {{.SubmittedDate}}</p>
    </div>

    <h3 style="color: #1f2937; font-size: 18px;">What Happens Next?</h3>
    <ul style="padding-left: 20px; line-height: 1.8;">
      <li>Our medical team will review your submission within 24-48 hours</li>
      <li>We may contact you if additional information is needed</li>
      <li>Processing time: 7-10 business days (or 36-48 hours for rush service)</li>
      <li>You'll receive updates via email as we progress</li>
    </ul>
{{if .RequiresUpload}}
    <div style="background: #fef3c7; padding: 15px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #f59e0b;">
      <p style="margin: 0; color: #92400e;"><strong>Action Required:</strong> Please upload your supporting documents as soon as possible to avoid delays in processing.</p>
    </div>
{{end}}
    <p style="margin-top: 30px;">If you have any questions, please contact us at <a href="mailto:contact@militarydisabilitynexus.com" style="color: #667eea; text-decoration: none;">contact@militarydisabilitynexus.com</a></p>

    <div style="margin-top: 40px; padding-top: 20px; border-top: 1px solid #e5e7eb; text-align: center; color: #6b7280; font-size: 14px;">
      <p style="margin: 5px 0;"><strong>Military Disability Nexus</strong></p>
      <p style="margin: 5px 0;">Professional Medical Documentation for VA Claims</p>
    </div>
  </div>
</body>
</html>
`))

var adminNotificationTmpl = template.Must(template.New("admin_notification").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>New Form Submission</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9fafb;">
  <div style="background: #1f2937; padding: 20px; border-radius: 8px 8px 0 0;">
    <h2 style="color: white; margin: 0; font-size: 22px;">New {{.FormTypeLabel}} Submission</h2>
  </div>

  <div style="background: white; padding: 30px; border-radius: 0 0 8px 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
    <div style="background: #f3f4f6; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
      <h3 style="margin-top: 0; color: #1f2937; font-size: 18px;">Submission Information</h3>
      <p style="margin: 8px 0;"><strong>Name:</strong> {{.FullName}}</p>
      <p style="margin: 8px 0;"><strong>Email:</strong> <a href="mailto:{{.Email}}" style="color: #667eea;">{{.Email}}</a></p>
{{if .Phone}}      <p style="margin: 8px 0;"><strong>Phone:</strong> {{.Phone}}</p>
{{end}}      <p style="margin: 8px 0;"><strong>Form Type:</strong> {{.FormTypeLabel}}</p>
      <p style="margin: 8px 0;"><strong>Requires Upload:</strong> {{if .RequiresUpload}}Yes{{else}}No{{end}}</p>
    </div>
{{if .HasFormData}}
    <div style="background: #f3f4f6; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
      <h3 style="margin-top: 0; color: #1f2937; font-size: 18px;">Form Data Summary</h3>
      <p style="margin: 0; font-size: 14px; color: #6b7280;">View full details in the admin panel</p>
    </div>
{{end}}
    <div style="text-align: center; margin-top: 30px;">
      <a href="{{.AdminURL}}" style="display: inline-block; background: #667eea; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; font-weight: bold;">View in Admin Panel</a>
    </div>

    <p style="margin-top: 20px; color: #6b7280; font-size: 14px; text-align: center;">
      Submitted: {{.SubmittedDate}}<br>
      Reference: {{.ReferenceNumber}}
    </p>
  </div>
</body>
</html>
`))

var contactConfirmationTmpl = template.Must(template.New("contact_confirmation").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Thank You for Contacting Us</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9fafb;">
  <div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="color: white; margin: 0; font-size: 28px;">Military Disability Nexus</h1>
  </div>

  <div style="background: white; padding: 30px; border-radius: 0 0 10px 10px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
    <h2 style="color: #1f2937; margin-top: 0;">Thank You for Reaching Out</h2>

    <p>Dear {{.Name}},</p>

    <p>We have received your message and a member of our team will get back to you within one business day.</p>

    <div style="background: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #667eea;">
      <h3 style="margin-top: 0; color: #667eea; font-size: 18px;">Your Message</h3>
      <p style="margin: 8px 0;"><strong>Reference Number:</strong> {{.ReferenceNumber}}</p>
      <p style="margin: 8px 0;"><strong>Subject:</strong> {{.Subject}}</p>
      <p style="margin: 8px 0;"><strong>Submitted:</strong> {{.SubmittedDate}}</p>
    </div>

    <p style="margin-top: 30px;">If your request is urgent, please email us directly at <a href="mailto:contact@militarydisabilitynexus.com" style="color: #667eea; text-decoration: none;">contact@militarydisabilitynexus.com</a></p>

    <div style="margin-top: 40px; padding-top: 20px; border-top: 1px solid #e5e7eb; text-align: center; color: #6b7280; font-size: 14px;">
      <p style="margin: 5px 0;"><strong>Military Disability Nexus</strong></p>
      <p style="margin: 5px 0;">Professional Medical Documentation for VA Claims</p>
    </div>
  </div>
</body>
</html>
`))

var contactAdminTmpl = template.Must(template.New("contact_admin").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>New Contact Form Submission</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9fafb;">
  <div style="background: #1f2937; padding: 20px; border-radius: 8px 8px 0 0;">
    <h2 style="color: white; margin: 0; font-size: 22px;">New Contact Form Submission</h2>
  </div>

  <div style="background: white; padding: 30px; border-radius: 0 0 8px 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
    <div style="background: #f3f4f6; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
      <h3 style="margin-top: 0; color: #1f2937; font-size: 18px;">Contact Information</h3>
      <p style="margin: 8px 0;"><strong>Name:</strong> {{.Name}}</p>
      <p style="margin: 8px 0;"><strong>Email:</strong> <a href="mailto:{{.Email}}" style="color: #667eea;">{{.Email}}</a></p>
{{if .Phone}}      <p style="margin: 8px 0;"><strong>Phone:</strong> {{.Phone}}</p>
{{end}}{{if .ServiceInterest}}      <p style="margin: 8px 0;"><strong>Service Interest:</strong> {{.ServiceInterest}}</p>
{{end}}      <p style="margin: 8px 0;"><strong>Subject:</strong> {{.Subject}}</p>
    </div>

    <div style="background: #f3f4f6; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
      <h3 style="margin-top: 0; color: #1f2937; font-size: 18px;">Message</h3>
      <p style="margin: 0; white-space: pre-wrap;">{{.Message}}</p>
    </div>

    <div style="text-align: center; margin-top: 30px;">
      <a href="{{.AdminURL}}" style="display: inline-block; background: #667eea; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; font-weight: bold;">View in Admin Panel</a>
    </div>

    <p style="margin-top: 20px; color: #6b7280; font-size: 14px; text-align: center;">
      Submitted: {{.SubmittedDate}}<br>
      Reference: {{.ReferenceNumber}}
    </p>
  </div>
</body>
</html>
`))

func renderTemplate(tmpl *template.Template, data interface{}) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func newFormEmailData(sub *models.FormSubmission, adminURL string) formEmailData {
	return formEmailData{
		FullName:        sub.FullName,
		Email:           sub.Email,
		Phone:           sub.Phone,
		FormTypeLabel:   models.FormTypeLabel(sub.FormType),
		ReferenceNumber: ReferenceNumber(sub.ID),
		SubmittedDate:   formatSubmittedDate(sub.CreatedAt),
		RequiresUpload:  sub.RequiresUpload,
		HasFormData:     len(sub.FormData) > 2, // more than "{}"
		AdminURL:        adminURL,
	}
}

func newContactEmailData(contact *models.Contact, adminURL string) contactEmailData {
	return contactEmailData{
		Name:            contact.Name,
		Email:           contact.Email,
		Phone:           contact.Phone,
		Subject:         contact.Subject,
		Message:         contact.Message,
		ServiceInterest: contact.ServiceInterest,
		ReferenceNumber: ReferenceNumber(contact.ID),
		SubmittedDate:   formatSubmittedDate(contact.CreatedAt),
		AdminURL:        adminURL,
	}
}
