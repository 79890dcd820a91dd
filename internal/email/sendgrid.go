package email

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const (
	defaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
)

// SendGridMailer delivers email through the SendGrid v3 API
type SendGridMailer struct {
	key  string
	host string
	from *sgmail.Email
	log  *zap.Logger
}

// NewSendGridMailer creates a SendGridMailer
func NewSendGridMailer(key, fromName, fromEmail string, log *zap.Logger) *SendGridMailer {
	return &SendGridMailer{
		key:  key,
		host: defaultHost,
		from: sgmail.NewEmail(fromName, fromEmail),
		log:  log,
	}
}

func (s *SendGridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}

// Send delivers msg
func (s *SendGridMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("email recipient is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	req := sendgrid.GetRequest(s.key, endpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned error status: %d", res.StatusCode)
	}

	s.log.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}
