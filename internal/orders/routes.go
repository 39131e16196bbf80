package orders

import (
	"github.com/go-chi/chi/v5"

	"github.com/saddlefit/oms/internal/rbac"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermOrders))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
	})
	r.With(h.rbac.RequirePermission(rbac.PermOrderExport)).Get("/export", h.Export)
	r.With(h.rbac.RequirePermission(rbac.PermOrderCreate)).Post("/", h.Create)
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermOrderEdit))
		r.Put("/{id}", h.Update)
		r.Post("/{id}/submit", h.Submit)
	})
	r.With(h.rbac.RequirePermission(rbac.PermOrderDelete)).Delete("/{id}", h.Delete)
	r.With(h.rbac.RequirePermission(rbac.PermOrderApprove)).Post("/{id}/approve", h.Approve)
	r.With(h.rbac.RequirePermission(rbac.PermOrderStatusUpdate)).Post("/{id}/status", h.ChangeStatus)
}
