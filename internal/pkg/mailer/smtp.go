package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer is a fallback Sender for environments without a Resend API key,
// such as local development against a mailpit container.
type SMTPMailer struct {
	host        string
	port        string
	username    string
	password    string
	defaultFrom string
	replyTo     string
}

func NewSMTPMailer(host, port, username, password, defaultFrom, replyTo string) *SMTPMailer {
	return &SMTPMailer{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		defaultFrom: defaultFrom,
		replyTo:     replyTo,
	}
}

// Send delivers the email over SMTP. SMTP has no message id, so the returned
// id is empty on success.
func (m *SMTPMailer) Send(ctx context.Context, req SendRequest) (string, error) {
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

	var auth smtp.Auth
	if m.username != "" && m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", from, strings.Join(req.To, ", "), req.Subject)
	if replyTo != "" {
		headers += fmt.Sprintf("Reply-To: %s\r\n", replyTo)
	}
	msg := []byte(headers +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
		req.HTML,
	)

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	if err := smtp.SendMail(addr, auth, envelopeAddress(from), req.To, msg); err != nil {
		return "", err
	}
	return "", nil
}

// envelopeAddress reduces a "Display Name <addr>" header value to the bare
// address SMTP's MAIL FROM expects.
func envelopeAddress(from string) string {
	if start := strings.LastIndex(from, "<"); start != -1 {
		if end := strings.LastIndex(from, ">"); end > start {
			return from[start+1 : end]
		}
	}
	return from
}
