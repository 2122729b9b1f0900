package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/guest-list/internal/api/http"
	"github.com/spec-kit/guest-list/internal/api/http/handlers"
	"github.com/spec-kit/guest-list/internal/auth"
	"github.com/spec-kit/guest-list/internal/config"
	"github.com/spec-kit/guest-list/internal/events"
	"github.com/spec-kit/guest-list/internal/export"
	"github.com/spec-kit/guest-list/internal/i18n"
	"github.com/spec-kit/guest-list/internal/observability"
	"github.com/spec-kit/guest-list/internal/persistence"
	"github.com/spec-kit/guest-list/internal/repository"
	"github.com/spec-kit/guest-list/internal/service"
	"github.com/spec-kit/guest-list/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Tracing, cfg.App.Name, cfg.App.Version)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		_ = shutdownTracing(flushCtx)
	}()

	store, err := openGuestStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open guest store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer store.close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	locale, err := i18n.ParseTag(cfg.Export.Locale)
	if err != nil {
		logger.Warn("unsupported locale, using default", zap.String("locale", cfg.Export.Locale), zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	var publisher service.EventPublisher
	if redis != nil {
		publisher = redis
	}
	worker.StartEventRelay(service.NewEventRelay(dispatcher, publisher, cfg.Redis.EventsChannel, logger))

	controller := service.NewGuestListController(service.GuestListDependencies{
		Store:      repository.WithTracing(store.repo, cfg.Store.Backend),
		Exporter:   export.NewCSVExporter(locale, cfg.Export.StrictCSV),
		Dispatcher: dispatcher,
		Logger:     logger,
		Printer:    i18n.Printer(locale),
	})
	// Initial load, as when the page is first opened. A failure leaves a notice.
	if _, err := controller.Load(ctx); err != nil {
		logger.Warn("initial guest load failed", zap.Error(err))
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(cfg.Auth, tokens)
	authMiddleware := auth.NewAuthMiddleware(tokens, authService.Enabled())

	pageHandler, err := handlers.NewPageHandler(controller, locale, authService.Enabled())
	if err != nil {
		logger.Fatal("failed to parse page template", zap.Error(err))
	}

	deps := map[string]handlers.Pinger{"store": store.probe}
	if redis != nil {
		deps["redis"] = redis
	}

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(cfg.App.Name)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps, metrics),
		Guests:         handlers.NewGuestsHandler(controller, logger),
		Page:           pageHandler,
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
