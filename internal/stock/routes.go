package stock

import (
	"github.com/go-chi/chi/v5"

	"github.com/saddlefit/oms/internal/rbac"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermSaddleStock))
		r.Get("/", h.list(h.service.List))
		r.Get("/{id}", h.show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermMySaddleStock))
		r.Get("/mine", h.list(h.service.Mine))
		r.Post("/{id}/release", h.assign(h.service.Release))
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermAvailableSaddleStock))
		r.Get("/available", h.list(h.service.Available))
		r.Post("/{id}/claim", h.assign(h.service.Claim))
	})
	r.With(h.rbac.RequirePermission(rbac.PermStockCreate)).Post("/", h.create)
	r.With(h.rbac.RequirePermission(rbac.PermStockEdit)).Put("/{id}", h.update)
	r.With(h.rbac.RequirePermission(rbac.PermStockDelete)).Delete("/{id}", h.delete)
}
