package masterdata

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saddlefit/oms/internal/masterdata/countrymanagers"
	"github.com/saddlefit/oms/internal/masterdata/customers"
	"github.com/saddlefit/oms/internal/masterdata/extras"
	"github.com/saddlefit/oms/internal/masterdata/fitters"
	"github.com/saddlefit/oms/internal/masterdata/presets"
	"github.com/saddlefit/oms/internal/masterdata/shared"
	"github.com/saddlefit/oms/internal/masterdata/suppliers"
	"github.com/saddlefit/oms/internal/masterdata/warehouses"
	"github.com/saddlefit/oms/internal/rbac"
	root "github.com/saddlefit/oms/internal/shared"
)

// Handler bundles the master data resources.
type Handler struct {
	CountryManagers *countrymanagers.Handler
	Warehouses      *warehouses.Handler
	Suppliers       *suppliers.Handler
	Fitters         *fitters.Handler
	Customers       *customers.Handler
	Presets         *presets.Handler
	Extras          *extras.Handler
}

// NewHandler wires repositories, services and handlers for every resource.
func NewHandler(logger *slog.Logger, pool *pgxpool.Pool, audit root.AuditRecorder, rbacMW rbac.Middleware) *Handler {
	rec := shared.Recorder{Audit: audit, Logger: logger}
	return &Handler{
		CountryManagers: countrymanagers.NewHandler(logger, countrymanagers.NewService(countrymanagers.NewRepository(pool), rec), rbacMW),
		Warehouses:      warehouses.NewHandler(logger, warehouses.NewService(warehouses.NewRepository(pool), rec), rbacMW),
		Suppliers:       suppliers.NewHandler(logger, suppliers.NewService(suppliers.NewRepository(pool), rec), rbacMW),
		Fitters:         fitters.NewHandler(logger, fitters.NewService(fitters.NewRepository(pool), rec), rbacMW),
		Customers:       customers.NewHandler(logger, customers.NewService(customers.NewRepository(pool), rec), rbacMW),
		Presets:         presets.NewHandler(logger, presets.NewService(presets.NewRepository(pool), rec), rbacMW),
		Extras:          extras.NewHandler(logger, extras.NewService(extras.NewRepository(pool), rec), rbacMW),
	}
}

// MountRoutes registers every master data resource on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/country-managers", h.CountryManagers.MountRoutes)
	r.Route("/warehouses", h.Warehouses.MountRoutes)
	r.Route("/suppliers", h.Suppliers.MountRoutes)
	r.Route("/fitters", h.Fitters.MountRoutes)
	r.Route("/customers", h.Customers.MountRoutes)
	r.Route("/presets", h.Presets.MountRoutes)
	r.Route("/extras", h.Extras.MountRoutes)
}
