// Package main is the entry point for the Trucker Logbook API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pkordes/trucker-logbook/internal/config"
	"github.com/pkordes/trucker-logbook/internal/dutylog"
	"github.com/pkordes/trucker-logbook/internal/geocode"
	"github.com/pkordes/trucker-logbook/internal/handler"
	"github.com/pkordes/trucker-logbook/internal/lock"
	"github.com/pkordes/trucker-logbook/internal/metrics"
	"github.com/pkordes/trucker-logbook/internal/middleware"
	"github.com/pkordes/trucker-logbook/internal/repo"
	"github.com/pkordes/trucker-logbook/internal/service"
	"github.com/pkordes/trucker-logbook/spec"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Geocoding --------------------------------------------------------
	var geocoder geocode.Geocoder = geocode.Disabled{}
	if cfg.GeocodingEnabled() {
		geocoder = geocode.NewClient(cfg.GeocoderURL, cfg.GeocoderUserAgent, cfg.GeocoderTimeout)
	} else {
		slog.Warn("geocoding disabled; log entries will have no coordinates")
	}
	cached, err := geocode.NewCache(geocoder, cfg.GeocodeCacheSize)
	if err != nil {
		slog.Error("failed to create geocode cache", "error", err)
		os.Exit(1)
	}

	// --- Per-trip locking -------------------------------------------------
	// In-process locking is enough for a single replica. With REDIS_URL set,
	// replicas share one lock namespace.
	var locker lock.Locker = lock.NewMemoryLocker()
	if cfg.RedisURL != "" {
		rdb, err := lock.OpenRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, cfg.LockTTL, logger)
		slog.Info("using redis trip locks", "ttl", cfg.LockTTL.String())
	}

	// --- Metrics ----------------------------------------------------------
	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	metrics.RegisterGeocodeCacheSize(registry, cached.Len)

	// --- Services ---------------------------------------------------------
	repos := repo.NewRepos(pool)
	generator := dutylog.NewGenerator(cached, dutylog.WithLogger(logger))

	tripSvc := service.NewTripService(repos.Trips, repos.LogEntries, repos.Summaries)
	configSvc := service.NewConfigurationService(repos.Trips, repos.Configurations)
	entrySvc := service.NewLogEntryService(repos.Trips, repos.LogEntries)
	logbookSvc := service.NewLogbookService(repos, repo.NewTransactor(pool), locker, generator, logger,
		service.WithLockWait(cfg.LockWait),
	)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	srv := handler.NewServer(tripSvc, configSvc, entrySvc, logbookSvc, logger)
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Generation geocodes every distinct city of a trip on a cold cache, so
	// the write timeout is well above the read timeout.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
