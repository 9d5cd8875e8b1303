package mailer

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/resend/resend-go/v2"
)

// ErrMissingField is returned when a send request lacks to/subject/html.
// These are programmer errors, not runtime conditions worth retrying.
var ErrMissingField = errors.New("missing required fields: to, subject, html")

// ErrMissingAPIKey is returned when the service was started without a
// Resend API key.
var ErrMissingAPIKey = errors.New("RESEND_API_KEY is not set")

// SendRequest is one outbound transactional email.
type SendRequest struct {
	To      []string
	Subject string
	HTML    string
	Text    string
	From    string
	ReplyTo string
}

// Sender delivers one email and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (string, error)
}

// ResendMailer sends email through the Resend API.
type ResendMailer struct {
	client      *resend.Client
	defaultFrom string
	replyTo     string
}

// NewResendMailer creates a mailer. An empty API key is tolerated at
// construction and rejected on send, so the app can boot without email.
func NewResendMailer(apiKey, defaultFrom, replyTo string) *ResendMailer {
	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}
	return &ResendMailer{
		client:      client,
		defaultFrom: defaultFrom,
		replyTo:     replyTo,
	}
}

// Send delivers the email via Resend and returns the provider message id.
// A missing Text body is derived from the HTML.
func (m *ResendMailer) Send(ctx context.Context, req SendRequest) (string, error) {
	if m.client == nil {
		return "", ErrMissingAPIKey
	}
	if len(req.To) == 0 || strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.HTML) == "" {
		return "", ErrMissingField
	}

	from := req.From
	if from == "" {
		from = m.defaultFrom
	}
	replyTo := req.ReplyTo
	if replyTo == "" {
		replyTo = m.replyTo
	}
	text := req.Text
	if text == "" {
		text = StripHTML(req.HTML)
	}

	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		Text:    text,
		ReplyTo: replyTo,
	})
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}

var (
	styleBlockRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	scriptBlockRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// StripHTML derives a plain-text fallback from an HTML body: style and
// script blocks go first, then all tags, then whitespace is collapsed.
func StripHTML(html string) string {
	text := styleBlockRe.ReplaceAllString(html, "")
	text = scriptBlockRe.ReplaceAllString(text, "")
	text = tagRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
