package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// QueueMaintenance carries periodic housekeeping.
	QueueMaintenance = "maintenance"

	// TaskOrderNotify mails the people attached to an order after a change.
	TaskOrderNotify = "orders:notify"
	// TaskIdempotencyCleanup purges expired idempotency keys.
	TaskIdempotencyCleanup = "maintenance:idempotency_cleanup"
)

// OrderNotifyPayload is the queued form of an order event.
type OrderNotifyPayload struct {
	Kind           string `json:"kind"`
	OrderID        int64  `json:"order_id"`
	OrderNumber    string `json:"order_number"`
	Status         string `json:"status"`
	FitterUsername string `json:"fitter_username"`
	ActorID        int64  `json:"actor_id"`
}

// IdempotencyCleanupPayload configures one cleanup run.
type IdempotencyCleanupPayload struct {
	Retention time.Duration `json:"retention"`
}

// NewOrderNotifyTask constructs an Asynq task.
func NewOrderNotifyTask(payload OrderNotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderNotify, data, asynq.MaxRetry(5), asynq.Timeout(time.Minute)), nil
}

// NewIdempotencyCleanupTask constructs the periodic cleanup task.
func NewIdempotencyCleanupTask(retention time.Duration) (*asynq.Task, error) {
	data, err := json.Marshal(IdempotencyCleanupPayload{Retention: retention})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIdempotencyCleanup, data), nil
}
