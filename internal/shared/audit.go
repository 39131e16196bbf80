package shared

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Audit actions written by the OMS services.
const (
	AuditCreate       = "create"
	AuditUpdate       = "update"
	AuditDelete       = "delete"
	AuditStatusChange = "status_change"
	AuditRoleChange   = "role_change"
)

// AuditLog is one row of audit_logs. A zero At means "now".
type AuditLog struct {
	ActorID  int64
	Actor    string
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

func (l AuditLog) validate() error {
	if l.Action == "" || l.Entity == "" || l.EntityID == "" {
		return errors.New("audit: action, entity and entity id are required")
	}
	return nil
}

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, log AuditLog) error
}

// Execer is the part of a pool or transaction the audit writer needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AuditLogger appends entries to audit_logs.
type AuditLogger struct {
	db Execer
}

// NewAuditLogger writes through db, which may be a pool or a pgx.Tx.
func NewAuditLogger(db Execer) *AuditLogger {
	return &AuditLogger{db: db}
}

func (l *AuditLogger) Record(ctx context.Context, entry AuditLog) error {
	if l == nil || l.db == nil {
		return errors.New("audit: logger not initialised")
	}
	if err := entry.validate(); err != nil {
		return err
	}
	var meta []byte
	if len(entry.Meta) > 0 {
		var err error
		if meta, err = json.Marshal(entry.Meta); err != nil {
			return fmt.Errorf("audit: encode meta: %w", err)
		}
	}
	at := entry.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := l.db.Exec(ctx, `INSERT INTO audit_logs (actor_id, actor, action, entity, entity_id, meta, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ActorID, entry.Actor, entry.Action, entry.Entity, entry.EntityID, meta, at)
	return err
}

// EntityID formats a numeric primary key for AuditLog.EntityID.
func EntityID(id int64) string {
	return strconv.FormatInt(id, 10)
}

var _ AuditRecorder = (*AuditLogger)(nil)
