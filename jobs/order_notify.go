package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/saddlefit/oms/internal/jobs"
	"github.com/saddlefit/oms/internal/orders"
	"github.com/saddlefit/oms/internal/platform/mail"
)

// Recipient is one addressee of an order mail.
type Recipient struct {
	Name  string
	Email string
}

// OrderContext is what the mail templates need about an order.
type OrderContext struct {
	Customer   string
	Total      int64
	Currency   string
	Recipients []Recipient
}

// OrderLookup resolves order details for notifications.
type OrderLookup interface {
	OrderContext(ctx context.Context, orderID int64) (OrderContext, error)
}

// PGOrderLookup reads recipients straight from the order tables.
type PGOrderLookup struct {
	Pool *pgxpool.Pool
}

// OrderContext returns the fitter and supplier addresses for an order.
func (l PGOrderLookup) OrderContext(ctx context.Context, orderID int64) (OrderContext, error) {
	var (
		out                        OrderContext
		fitterName, fitterEmail    string
		supplierName, supplierMail string
	)
	err := l.Pool.QueryRow(ctx, `SELECT c.name, o.total, o.currency, f.name, COALESCE(f.email, ''), s.name, COALESCE(s.email, '')
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		JOIN fitters f ON f.id = o.fitter_id
		JOIN suppliers s ON s.id = o.supplier_id
		WHERE o.id = $1`, orderID).Scan(&out.Customer, &out.Total, &out.Currency, &fitterName, &fitterEmail, &supplierName, &supplierMail)
	if err != nil {
		return OrderContext{}, err
	}
	if fitterEmail != "" {
		out.Recipients = append(out.Recipients, Recipient{Name: fitterName, Email: fitterEmail})
	}
	if supplierMail != "" {
		out.Recipients = append(out.Recipients, Recipient{Name: supplierName, Email: supplierMail})
	}
	return out, nil
}

// OrderNotifyJob sends order mails.
type OrderNotifyJob struct {
	Orders  OrderLookup
	Mailer  mail.Sender
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewOrderNotifyJob initialises the notification handler.
func NewOrderNotifyJob(lookup OrderLookup, mailer mail.Sender, logger *slog.Logger, metrics *jobmetrics.Metrics) *OrderNotifyJob {
	return &OrderNotifyJob{Orders: lookup, Mailer: mailer, Logger: logger, Metrics: metrics}
}

// Handle processes TaskOrderNotify tasks.
func (j *OrderNotifyJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Orders == nil || j.Mailer == nil {
		return errors.New("order notify: handler not configured")
	}
	var payload OrderNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	template := mail.OrderStatusChangedTemplate
	if payload.Kind == orders.EventCreated {
		template = mail.OrderCreatedTemplate
	} else if payload.Kind != orders.EventStatusChanged {
		return fmt.Errorf("unknown order event %q: %w", payload.Kind, asynq.SkipRetry)
	}

	tracker := j.Metrics.Track(TaskOrderNotify)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int64("order_id", payload.OrderID), slog.String("kind", payload.Kind))
	info, err := j.Orders.OrderContext(ctx, payload.OrderID)
	if errors.Is(err, pgx.ErrNoRows) {
		logger.Warn("order vanished before notification")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load order %d: %w", payload.OrderID, err)
	}

	var failed int
	for _, rcpt := range info.Recipients {
		_, err := j.Mailer.Send(ctx, mail.Message{
			Template: template,
			ToName:   rcpt.Name,
			ToEmail:  rcpt.Email,
			Data: map[string]any{
				"Name":        rcpt.Name,
				"OrderNumber": payload.OrderNumber,
				"Status":      payload.Status,
				"Customer":    info.Customer,
				"Total":       formatMoney(info.Total, info.Currency),
			},
		})
		if err != nil {
			failed++
			j.Metrics.AddMail(template, "failure")
			logger.Error("send order mail", slog.String("to", rcpt.Email), slog.Any("error", err))
			continue
		}
		j.Metrics.AddMail(template, "sent")
	}
	logger.Info("order notification processed", slog.Int("recipients", len(info.Recipients)), slog.Int("failed", failed))
	if failed > 0 && failed == len(info.Recipients) {
		return fmt.Errorf("order %d: all %d mails failed", payload.OrderID, failed)
	}
	return nil
}

func (j *OrderNotifyJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func formatMoney(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign, minor = "-", -minor
	}
	cents := strconv.FormatInt(minor%100, 10)
	if len(cents) == 1 {
		cents = "0" + cents
	}
	out := sign + strconv.FormatInt(minor/100, 10) + "." + cents
	if currency != "" {
		out += " " + currency
	}
	return out
}
