package orders

import (
	"strings"

	"github.com/saddlefit/oms/internal/rbac"
)

// ApplyFitterScope narrows a listing to the calling fitter's own orders.
//
// Only the FITTER role is scoped. A fitterUsername supplied by the caller is
// kept as is, and incomplete identities (nil user, no role, blank username)
// leave the filters untouched.
func ApplyFitterScope(user *rbac.AuthenticatedUser, f ListFilters) ListFilters {
	if user == nil || user.Role == "" {
		return f
	}
	username := strings.TrimSpace(user.Username)
	if username == "" || user.Role != rbac.RoleFitter {
		return f
	}
	if f.FitterUsername != nil && *f.FitterUsername != "" {
		return f
	}
	f.FitterUsername = &username
	return f
}
