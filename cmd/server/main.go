package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/CWeait/nemlig-mcp/api/controllers"
	"github.com/CWeait/nemlig-mcp/api/routes"
	"github.com/CWeait/nemlig-mcp/internal/nemlig"
	"github.com/CWeait/nemlig-mcp/internal/tools"
	"github.com/CWeait/nemlig-mcp/pkg/config"
	"github.com/CWeait/nemlig-mcp/pkg/logger"
	"github.com/CWeait/nemlig-mcp/pkg/metrics"
	"github.com/CWeait/nemlig-mcp/pkg/ratelimit"
	"github.com/CWeait/nemlig-mcp/pkg/redis"
	"github.com/CWeait/nemlig-mcp/pkg/session"
	"github.com/CWeait/nemlig-mcp/pkg/transport"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "nemlig-mcp"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "nemlig-mcp",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	var sessionStore session.Store = session.NewMemoryStore()
	var redisPinger controllers.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()

		sessionStore, err = session.NewRedisStore(redisClient)
		if err != nil {
			logg.Error(context.Background(), "failed to create redis session store", err)
			os.Exit(1)
		}
		redisPinger = redisClient
		logg.Info(context.Background(), "upstream sessions persisted in redis")
	}

	metricsRegistry := prometheus.NewRegistry()
	metricsRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	upstreamMetrics := metrics.NewUpstreamMetrics(metricsRegistry)

	doer, err := transport.New(transport.Options{
		Timeout:  cfg.Upstream.Timeout,
		Limiter:  ratelimit.New(cfg.Upstream.RequestsPerSecond, cfg.Upstream.Burst),
		Sessions: sessionStore,
		Logger:   logg,
		Metrics:  upstreamMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to build upstream transport", err)
		os.Exit(1)
	}

	client, err := nemlig.NewClient(cfg.Upstream, doer, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create upstream client", err)
		os.Exit(1)
	}

	// Authenticate eagerly when credentials are present so the first tool
	// call does not pay the login round trip. Failure is not fatal: cart
	// and order tools will surface it per call, search still works.
	if cfg.Upstream.HasCredentials() {
		if err := client.Login(context.Background()); err != nil {
			logg.Error(context.Background(), "startup login failed, continuing unauthenticated", err)
		}
	} else {
		logg.Warn(context.Background(), "no upstream credentials configured, authenticated tools will fail")
	}

	registry := tools.NewRegistry(client, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting tool server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisPinger, registry, metricsRegistry),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "tool server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received, draining requests")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "shutdown did not complete cleanly", err)
		}
	}
}
