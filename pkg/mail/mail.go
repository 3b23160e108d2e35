package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/fitcoachhq/fitcoach-backend/pkg/config"
)

// Message is one outbound transactional email.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

// Sender delivers transactional email. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SendgridSender implements Sender on the SendGrid v3 API.
type SendgridSender struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

// NewSendgridSender builds a sender from the configured credentials.
func NewSendgridSender(cfg config.SendgridConfig) (*SendgridSender, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("sendgrid api key and from address are required")
	}
	return &SendgridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   sgmail.NewEmail(cfg.FromName, cfg.DefaultFrom),
	}, nil
}

// Send delivers a single plain-text email. One attempt, no retries.
func (s *SendgridSender) Send(ctx context.Context, msg Message) error {
	if msg.ToEmail == "" {
		return fmt.Errorf("recipient email is required")
	}
	to := sgmail.NewEmail(msg.ToName, msg.ToEmail)
	email := sgmail.NewSingleEmail(s.from, msg.Subject, to, msg.Body, msg.Body)

	resp, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d", resp.StatusCode)
	}
	return nil
}
