package presets

import (
	"github.com/go-chi/chi/v5"

	"github.com/saddlefit/oms/internal/rbac"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermPresets))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
	})
	r.With(h.rbac.RequirePermission(rbac.PermPresetCreate)).Post("/", h.Create)
	r.With(h.rbac.RequirePermission(rbac.PermPresetEdit)).Put("/{id}", h.Update)
	r.With(h.rbac.RequirePermission(rbac.PermPresetDelete)).Delete("/{id}", h.Delete)
}
