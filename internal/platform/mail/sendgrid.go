package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const maxRetries = 3

// SendgridMailer delivers mail through the SendGrid v3 API.
type SendgridMailer struct {
	fromName  string
	fromEmail string
	client    *sendgrid.Client
	sandbox   bool
	backoff   time.Duration
}

func NewSendgrid(apiKey, fromEmail, fromName string, sandbox bool) *SendgridMailer {
	return &SendgridMailer{
		fromName:  fromName,
		fromEmail: fromEmail,
		client:    sendgrid.NewSendClient(apiKey),
		sandbox:   sandbox,
		backoff:   time.Second,
	}
}

func (m *SendgridMailer) Send(ctx context.Context, msg Message) (int, error) {
	if msg.ToEmail == "" {
		return 0, errors.New("mail: recipient address required")
	}
	subject, body, err := Render(msg.Template, msg.Data)
	if err != nil {
		return 0, err
	}
	from := sgmail.NewEmail(m.fromName, m.fromEmail)
	to := sgmail.NewEmail(msg.ToName, msg.ToEmail)
	message := sgmail.NewSingleEmail(from, subject, to, "", body)
	sandbox := m.sandbox
	message.SetMailSettings(&sgmail.MailSettings{SandboxMode: &sgmail.Setting{Enable: &sandbox}})

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := m.client.SendWithContext(ctx, message)
		switch {
		case err != nil:
			lastErr = err
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("sendgrid status %d", resp.StatusCode)
		case resp.StatusCode >= 400:
			return resp.StatusCode, fmt.Errorf("sendgrid rejected message: status %d", resp.StatusCode)
		default:
			return resp.StatusCode, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(m.backoff * time.Duration(attempt+1)):
		}
	}
	return 0, fmt.Errorf("mail to %s failed after %d attempts: %w", msg.ToEmail, maxRetries, lastErr)
}
