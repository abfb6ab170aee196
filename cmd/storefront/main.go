package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/storefront/internal/cart"
	"github.com/jcmexdev/storefront/internal/checkout/app"
	"github.com/jcmexdev/storefront/internal/checkout/flow"
	"github.com/jcmexdev/storefront/internal/checkout/ports"
	"github.com/jcmexdev/storefront/internal/checkout/validation"
	"github.com/jcmexdev/storefront/internal/notify"
	"github.com/jcmexdev/storefront/internal/orderstore"
	ordersqlite "github.com/jcmexdev/storefront/internal/orderstore/sqlite"
	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/pkg/config"
	"github.com/jcmexdev/storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/storefront/internal/placement/journal"
	journalsqlite "github.com/jcmexdev/storefront/internal/placement/journal/sqlite"
	"github.com/jcmexdev/storefront/internal/storefront/grpcx"
	"github.com/jcmexdev/storefront/internal/storefront/httpx"
	"github.com/jcmexdev/storefront/internal/tracking"
	"github.com/jcmexdev/storefront/pkg/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(telemetry.NewLogger(os.Stderr, cfg.LogLevel))
	if cfg.InsecureJWTSecret {
		slog.Warn("JWT_SECRET unset, admin tokens use the development secret", "env", cfg.Env)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTelEnabled {
		shutdown, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{
			ServiceName: cfg.OTelServiceName,
			Endpoint:    cfg.OTelEndpoint,
			Environment: cfg.OTelEnvironment,
			SampleRatio: cfg.OTelSampleRatio,
		})
		if err != nil {
			slog.Error("failed to initialise tracer", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("tracer shutdown error", "error", err)
			}
		}()
	}

	clock := clockwork.NewRealClock()
	checks := map[string]httpx.Pinger{}

	var store ports.OrderStore = orderstore.NewMemory(clock)
	var placements journal.Repository // nil: journaling skipped
	var history httpx.JournalReader
	if cfg.SQLitePath != "" {
		orders, err := ordersqlite.Open(cfg.SQLitePath, clock)
		if err != nil {
			slog.Error("failed to open order store", "path", cfg.SQLitePath, "error", err)
			os.Exit(1)
		}
		defer orders.Close()
		store = orders

		repo, err := journalsqlite.Open(cfg.SQLitePath)
		if err != nil {
			slog.Error("failed to open placement journal", "path", cfg.SQLitePath, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		placements = repo
		history = repo
		slog.Info("orders persisted to sqlite", "path", cfg.SQLitePath)
	}

	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr, "storefront")
		store = orderstore.NewCached(store, redisCache, cfg.OrderCacheTTL)
		checks["redis"] = redisCache
		slog.Info("order cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.OrderCacheTTL)
	}

	observed := orderstore.NewObserved(store)
	go logOrderEvents(ctx, observed.Subscribe(ctx))

	carts := cart.NewService()
	feed := notify.NewFeed(clock, cfg.NotificationTTL)
	checkout := app.NewService(
		flow.NewSessions(clock),
		validation.New(),
		carts,
		observed,
		feed,
		placements,
		clock,
		app.Config{ProcessingDelay: cfg.ProcessingDelay, RedirectDelay: cfg.RedirectDelay},
	)

	handler := httpx.NewHandler(httpx.Deps{
		Carts:         carts,
		Checkout:      checkout,
		Orders:        observed,
		Tracker:       tracking.NewTracker(observed, clock),
		Notifications: feed,
		Journal:       history,
		PollInterval:  cfg.TrackingPollInterval,
		Health:        checks,
	})
	router := httpx.NewRouter(handler, auth.NewSigner(cfg.JWTSecret, 24*time.Hour))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, "storefront"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		slog.Error("failed to listen", "addr", cfg.GRPCAddr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpcx.NewServer()

	errCh := make(chan error, 2)
	go func() {
		slog.Info("storefront HTTP running", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		slog.Info("storefront gRPC health running", "addr", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-errCh:
		slog.Error("server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
	grpcServer.Stop()
}

func logOrderEvents(ctx context.Context, events <-chan orderstore.Event) {
	for ev := range events {
		slog.InfoContext(ctx, "order event", "type", ev.Type, "order_id", ev.OrderID, "status", ev.Status)
	}
}
