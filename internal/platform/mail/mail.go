package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
)

// Template names available to callers.
const (
	OrderCreatedTemplate       = "order_created.tmpl"
	OrderStatusChangedTemplate = "order_status_changed.tmpl"
)

//go:embed "templates"
var FS embed.FS

// Message is a single templated mail.
type Message struct {
	Template string
	ToName   string
	ToEmail  string
	Data     any
}

// Sender delivers messages and reports the provider status code.
type Sender interface {
	Send(ctx context.Context, msg Message) (int, error)
}

// Render executes the subject and body blocks of a template.
func Render(name string, data any) (subject, body string, err error) {
	tmpl, err := template.ParseFS(FS, "templates/"+name)
	if err != nil {
		return "", "", fmt.Errorf("parse mail template %s: %w", name, err)
	}
	var subj, html bytes.Buffer
	if err := tmpl.ExecuteTemplate(&subj, "subject", data); err != nil {
		return "", "", fmt.Errorf("render subject: %w", err)
	}
	if err := tmpl.ExecuteTemplate(&html, "body", data); err != nil {
		return "", "", fmt.Errorf("render body: %w", err)
	}
	return subj.String(), html.String(), nil
}

// LogSender renders messages and logs them instead of delivering. Used when
// no provider key is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(_ context.Context, msg Message) (int, error) {
	subject, _, err := Render(msg.Template, msg.Data)
	if err != nil {
		return 0, err
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("mail suppressed", slog.String("to", msg.ToEmail), slog.String("subject", subject))
	return 202, nil
}
