package shared

import (
	"context"
	"log/slog"

	"github.com/saddlefit/oms/internal/rbac"
	root "github.com/saddlefit/oms/internal/shared"
)

// Recorder writes best-effort audit entries for master data mutations.
type Recorder struct {
	Audit  root.AuditRecorder
	Logger *slog.Logger
}

// Record stores an audit entry attributed to the caller in ctx. Failures are
// logged and never abort the mutation.
func (r Recorder) Record(ctx context.Context, action, entity string, id int64, meta map[string]any) {
	if r.Audit == nil {
		return
	}
	entry := root.AuditLog{Action: action, Entity: entity, EntityID: root.EntityID(id), Meta: meta}
	if user := rbac.UserFromContext(ctx); user != nil {
		entry.ActorID = user.ID
		entry.Actor = user.Username
	}
	if err := r.Audit.Record(ctx, entry); err != nil && r.Logger != nil {
		r.Logger.Warn("audit record failed", slog.String("entity", entity), slog.Int64("id", id), slog.Any("error", err))
	}
}
