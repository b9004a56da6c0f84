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

	"golang.org/x/sync/errgroup"

	"github.com/atrium-portal/atrium/internal/app"
	"github.com/atrium-portal/atrium/internal/assignments"
	"github.com/atrium-portal/atrium/internal/audit"
	audithttp "github.com/atrium-portal/atrium/internal/audit/http"
	"github.com/atrium-portal/atrium/internal/authz"
	"github.com/atrium-portal/atrium/internal/campaigns"
	"github.com/atrium-portal/atrium/internal/events"
	"github.com/atrium-portal/atrium/internal/identity"
	"github.com/atrium-portal/atrium/internal/observability"
	"github.com/atrium-portal/atrium/internal/platform/cache"
	"github.com/atrium-portal/atrium/internal/platform/db"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	authenticator, err := identity.NewOIDCAuthenticator(ctx, cfg.OIDCIssuer, cfg.OIDCAudience)
	if err != nil {
		logger.Error("init oidc authenticator", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	registry := authz.NewRegistry()
	store := assignments.NewCache(assignments.NewRepository(pool), redisClient, cfg.AssignmentCacheTTL)
	resolver := authz.NewResolver(store, cfg.ElevatedGroupID, logger, metrics)
	gate := authz.Gate{
		Resolver: resolver,
		Registry: registry,
		Logger:   logger,
		Metrics:  metrics,
		Audit:    audit.NewRecorder(pool),
	}

	eventsService := events.NewService(events.NewRepository(pool))
	campaignsService := campaigns.NewService(campaigns.NewRepository(pool))

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Authenticator:    authenticator,
		AuthzHandler:     authz.NewHandler(logger, registry, resolver, gate),
		EventsHandler:    events.NewHandler(logger, eventsService, gate),
		CampaignsHandler: campaigns.NewHandler(logger, campaignsService, gate),
		AuditHandler:     audithttp.NewHandler(logger, audit.NewService(audit.NewPGRepository(pool)), gate),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
