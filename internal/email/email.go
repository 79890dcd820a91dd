// Package email sends notification emails to waste post owners.
package email

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"go.uber.org/zap"

	"GREENPATH_BACK-END/internal/config"
)

// Message is a single outgoing email
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends emails
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns a SendGrid mailer when an API key is configured, a logging mailer otherwise
func New(cfg config.EmailConfig, log *zap.Logger) Mailer {
	if cfg.SendGridAPIKey != "" && cfg.FromEmail != "" {
		return NewSendGridMailer(cfg.SendGridAPIKey, cfg.FromName, cfg.FromEmail, log)
	}
	return &LogMailer{log: log}
}

// LogMailer only logs messages
type LogMailer struct {
	log *zap.Logger
}

// NewLogMailer creates a LogMailer
func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send logs msg instead of delivering it
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.log.Info("email not sent, no provider configured",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

var statusChangedHTML = template.Must(template.New("status_changed").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2 style="color: #2e7d32;">Report update</h2>
		<p>Hello {{.Name}},</p>
		<p>Your waste report <strong>{{.Title}}</strong> is now marked as <strong>{{.Label}}</strong>.</p>
		<p>Thank you for helping keep your neighbourhood clean.</p>
		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
		<p style="color: #999; font-size: 12px;">GreenPath Team</p>
	</div>
</body>
</html>`))

// StatusChanged builds the email sent when an admin moves a report to a new status
func StatusChanged(to, name, title, status string) Message {
	if name == "" {
		name = "there"
	}
	label := StatusLabel(status)
	text := fmt.Sprintf(`Hello %s,

Your waste report "%s" is now marked as %s.

Thank you for helping keep your neighbourhood clean.

GreenPath Team
`, name, title, label)

	var html strings.Builder
	if err := statusChangedHTML.Execute(&html, struct{ Name, Title, Label string }{name, title, label}); err != nil {
		html.Reset()
	}

	return Message{
		To:      to,
		ToName:  name,
		Subject: "Your waste report is " + strings.ToLower(label),
		Text:    text,
		HTML:    html.String(),
	}
}

// StatusLabel returns a human readable status
func StatusLabel(status string) string {
	switch status {
	case "pending":
		return "Pending"
	case "in_progress":
		return "In Progress"
	case "collected":
		return "Collected"
	}
	return status
}
