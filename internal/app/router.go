package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/saddlefit/oms/internal/auth"
	"github.com/saddlefit/oms/internal/masterdata"
	"github.com/saddlefit/oms/internal/observability"
	"github.com/saddlefit/oms/internal/orders"
	"github.com/saddlefit/oms/internal/platform/httpx"
	"github.com/saddlefit/oms/internal/rbac"
	"github.com/saddlefit/oms/internal/stock"
	"github.com/saddlefit/oms/internal/users"
	"github.com/saddlefit/oms/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Pool    *pgxpool.Pool
	Redis   *redis.Client
	Metrics *observability.Metrics

	AuthHandler        *auth.Handler
	Authenticator      auth.Authenticator
	PermissionsHandler *rbac.PermissionsHandler
	MasterDataHandler  *masterdata.Handler
	UsersHandler       *users.Handler
	OrdersHandler      *orders.Handler
	StockHandler       *stock.Handler
	JobHandler         *jobs.Handler
}

// NewRouter constructs the chi.Router with the API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", healthHandler(params))
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.AuthHandler != nil {
		r.Route("/auth", params.AuthHandler.MountRoutes)
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(params.Authenticator, params.Logger))

		if params.PermissionsHandler != nil {
			r.Route("/permissions", params.PermissionsHandler.MountRoutes)
		}
		if params.MasterDataHandler != nil {
			params.MasterDataHandler.MountRoutes(r)
		}
		if params.UsersHandler != nil {
			r.Route("/users", params.UsersHandler.MountRoutes)
		}
		if params.OrdersHandler != nil {
			r.Route("/orders", params.OrdersHandler.MountRoutes)
		}
		if params.StockHandler != nil {
			r.Route("/stock", params.StockHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}

type healthResponse struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
}

func healthHandler(params RouterParams) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		resp := healthResponse{Status: "ok", Postgres: "skipped", Redis: "skipped"}
		if params.Pool != nil {
			resp.Postgres = "ok"
			if err := params.Pool.Ping(ctx); err != nil {
				resp.Status, resp.Postgres = "degraded", "down"
				params.Logger.Warn("healthz postgres", slog.Any("error", err))
			}
		}
		if params.Redis != nil {
			resp.Redis = "ok"
			if err := params.Redis.Ping(ctx).Err(); err != nil {
				resp.Status, resp.Redis = "degraded", "down"
				params.Logger.Warn("healthz redis", slog.Any("error", err))
			}
		}
		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		httpx.JSON(w, status, resp)
	}
}
