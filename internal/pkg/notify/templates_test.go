package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdnexus/nexus-server/app/models"
)

func TestReferenceNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "a1b2c3d4-e5f6-7890-abcd-ef1234567890", want: "A1B2C3D4"},
		{in: "abcd", want: "ABCD"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := ReferenceNumber(tt.in); got != tt.want {
			t.Fatalf("ReferenceNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSubmittedDate(t *testing.T) {
	ts := time.Date(2025, time.March, 7, 14, 5, 0, 0, time.UTC)
	if got := formatSubmittedDate(ts); got != "March 7, 2025 2:05 PM" {
		t.Fatalf("formatSubmittedDate() = %q", got)
	}
}

func TestUserConfirmationTemplate(t *testing.T) {
	sub := &models.FormSubmission{
		ID:             "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
		FormType:       models.FormTypeAidAttendance,
		FullName:       "Jordan Veteran",
		Email:          "jordan@example.com",
		RequiresUpload: true,
		CreatedAt:      time.Date(2025, time.March, 7, 14, 5, 0, 0, time.UTC),
	}

	html, err := renderTemplate(userConfirmationTmpl, newFormEmailData(sub, "https://example.com/admin/form-submissions"))
	require.NoError(t, err)

	assert.Contains(t, html, "Dear Jordan Veteran,")
	assert.Contains(t, html, "Aid &amp; Attendance")
	assert.Contains(t, html, "A1B2C3D4")
	assert.Contains(t, html, "March 7, 2025 2:05 PM")
	assert.Contains(t, html, "Action Required:")
}

func TestUserConfirmationTemplateWithoutUpload(t *testing.T) {
	sub := &models.FormSubmission{
		ID:       "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
		FormType: models.FormTypeDBQ,
		FullName: "Jordan Veteran",
		Email:    "jordan@example.com",
	}

	html, err := renderTemplate(userConfirmationTmpl, newFormEmailData(sub, ""))
	require.NoError(t, err)
	assert.NotContains(t, html, "Action Required:")
}

func TestAdminNotificationTemplate(t *testing.T) {
	sub := &models.FormSubmission{
		ID:       "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
		FormType: models.FormType1151Claim,
		FullName: "Jordan Veteran",
		Email:    "jordan@example.com",
		Phone:    "555-0100",
		FormData: models.JSON(`{"condition":"knee"}`),
	}

	html, err := renderTemplate(adminNotificationTmpl, newFormEmailData(sub, "https://example.com/admin/form-submissions"))
	require.NoError(t, err)

	assert.Contains(t, html, "New 1151 Claim Submission")
	assert.Contains(t, html, "555-0100")
	assert.Contains(t, html, "Form Data Summary")
	assert.Contains(t, html, "https://example.com/admin/form-submissions")
}

func TestAdminNotificationTemplateEmptyFormData(t *testing.T) {
	sub := &models.FormSubmission{
		ID:       "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
		FormType: models.FormTypeQuickIntake,
		FullName: "Jordan Veteran",
		Email:    "jordan@example.com",
		FormData: models.JSON(`{}`),
	}

	html, err := renderTemplate(adminNotificationTmpl, newFormEmailData(sub, ""))
	require.NoError(t, err)
	assert.NotContains(t, html, "Form Data Summary")
	assert.NotContains(t, html, "Phone:")
}

func TestContactTemplates(t *testing.T) {
	contact := &models.Contact{
		ID:              "fedcba98-0000-0000-0000-000000000000",
		Name:            "Casey Caller",
		Email:           "casey@example.com",
		Subject:         "Question about rush service",
		Message:         "Is 48 hour turnaround possible?",
		ServiceInterest: "nexus_letter",
	}

	userHTML, err := renderTemplate(contactConfirmationTmpl, newContactEmailData(contact, ""))
	require.NoError(t, err)
	assert.Contains(t, userHTML, "Dear Casey Caller,")
	assert.Contains(t, userHTML, "FEDCBA98")
	assert.Contains(t, userHTML, "Question about rush service")

	adminHTML, err := renderTemplate(contactAdminTmpl, newContactEmailData(contact, "https://example.com/admin/contacts"))
	require.NoError(t, err)
	assert.Contains(t, adminHTML, "Is 48 hour turnaround possible?")
	assert.Contains(t, adminHTML, "Service Interest:")
	assert.Contains(t, adminHTML, "https://example.com/admin/contacts")
}
