package rbac

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/saddlefit/oms/internal/platform/httpx"
)

// DenialRecorder counts rejected authorisation checks.
type DenialRecorder interface {
	RecordDenial(key string, role string)
}

// Middleware wires RBAC authorization helpers for HTTP handlers.
type Middleware struct {
	Logger  *slog.Logger
	Denials DenialRecorder
}

// RequirePermission lets the request through when the caller holds at least
// one of keys.
func (m Middleware) RequirePermission(keys ...PermissionKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			for _, key := range keys {
				if HasPermission(user.Role, key) {
					next.ServeHTTP(w, r)
					return
				}
			}
			m.deny(w, r, user, joinKeys(keys))
		})
	}
}

// RequireRole applies the single-role hierarchy check.
func (m Middleware) RequireRole(required Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			if !HasRole(user.Role, required) {
				m.deny(w, r, user, "role:"+string(required))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) deny(w http.ResponseWriter, r *http.Request, user *AuthenticatedUser, what string) {
	if m.Logger != nil {
		m.Logger.Warn("rbac denied",
			slog.String("path", r.URL.Path),
			slog.String("username", user.Username),
			slog.String("role", string(user.Role)),
			slog.String("required", what))
	}
	if m.Denials != nil {
		m.Denials.RecordDenial(what, string(user.Role))
	}
	httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient permissions")
}

func joinKeys(keys []PermissionKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, "|")
}
