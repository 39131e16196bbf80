package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/saddlefit/oms/internal/app"
	"github.com/saddlefit/oms/internal/auth"
	"github.com/saddlefit/oms/internal/masterdata"
	"github.com/saddlefit/oms/internal/observability"
	"github.com/saddlefit/oms/internal/orders"
	"github.com/saddlefit/oms/internal/platform/cache"
	"github.com/saddlefit/oms/internal/platform/db"
	"github.com/saddlefit/oms/internal/rbac"
	"github.com/saddlefit/oms/internal/shared"
	"github.com/saddlefit/oms/internal/stock"
	"github.com/saddlefit/oms/internal/users"
	"github.com/saddlefit/oms/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("oms exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	dbpool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{MaxConns: cfg.PGMaxConns})
	if err != nil {
		return err
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	rbacMiddleware := rbac.Middleware{Logger: logger, Denials: metrics}

	sessions := shared.NewSessionStore(redisClient, cfg.AuthTokenTTL)
	tokens := auth.NewTokenIssuer(cfg.AuthTokenSecret, cfg.AuthTokenIssuer, cfg.AuthTokenTTL)
	authService := auth.NewService(auth.NewRepository(dbpool), tokens, sessions, logger)

	auditLogger := shared.NewAuditLogger(dbpool)
	idempotencyStore := shared.NewIdempotencyStore(dbpool)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		return err
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	usersService := users.NewService(users.NewRepository(dbpool), sessions, auditLogger, logger)
	ordersService := orders.NewService(orders.NewRepository(dbpool), idempotencyStore, auditLogger, jobClient, logger)
	stockCache := cache.NewJSONCache(redisClient, "oms:stock:", cfg.StockCacheTTL)
	stockService := stock.NewService(stock.NewRepository(dbpool), stockCache, auditLogger, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Pool:               dbpool,
		Redis:              redisClient,
		Metrics:            metrics,
		AuthHandler:        auth.NewHandler(authService, logger),
		Authenticator:      authService,
		PermissionsHandler: rbac.NewPermissionsHandler(rbacMiddleware),
		MasterDataHandler:  masterdata.NewHandler(logger, dbpool, auditLogger, rbacMiddleware),
		UsersHandler:       users.NewHandler(logger, usersService, rbacMiddleware),
		OrdersHandler:      orders.NewHandler(logger, ordersService, rbacMiddleware),
		StockHandler:       stock.NewHandler(logger, stockService, rbacMiddleware),
		JobHandler:         jobs.NewHandler(inspector, logger, rbacMiddleware),
	})

	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
