package rbac

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saddlefit/oms/internal/platform/httpx"
)

// PermissionsHandler exposes the permission matrix to the UI.
type PermissionsHandler struct {
	rbac Middleware
}

// NewPermissionsHandler builds PermissionsHandler instance.
func NewPermissionsHandler(rbac Middleware) *PermissionsHandler {
	return &PermissionsHandler{rbac: rbac}
}

// MountRoutes registers permission routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Get("/me", h.mine)
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(PermUserManagement))
		r.Get("/", h.table)
	})
}

type screensResponse struct {
	Role    Role                   `json:"role"`
	Screens map[PermissionKey]bool `json:"screens"`
}

type tableEntry struct {
	Key   PermissionKey `json:"key"`
	Roles []Role        `json:"roles"`
}

func (h *PermissionsHandler) mine(w http.ResponseWriter, r *http.Request) {
	var role Role
	if user := UserFromContext(r.Context()); user != nil {
		role = user.Role
	}
	httpx.JSON(w, http.StatusOK, screensResponse{Role: role, Screens: Screens(role)})
}

func (h *PermissionsHandler) table(w http.ResponseWriter, r *http.Request) {
	keys := Keys()
	entries := make([]tableEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, tableEntry{Key: k, Roles: RolesFor(k)})
	}
	httpx.JSON(w, http.StatusOK, entries)
}
