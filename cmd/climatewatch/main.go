package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/climatewatch/climatewatch/config"
	"github.com/climatewatch/climatewatch/internal/api"
	"github.com/climatewatch/climatewatch/internal/database"
	"github.com/climatewatch/climatewatch/internal/docstore"
	"github.com/climatewatch/climatewatch/internal/ingest"
	"github.com/climatewatch/climatewatch/internal/logger"
	"github.com/climatewatch/climatewatch/internal/metrics"
	middlewares "github.com/climatewatch/climatewatch/internal/middleware"
	"github.com/climatewatch/climatewatch/internal/ratelimit"
	"github.com/climatewatch/climatewatch/internal/store"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Starting ClimateWatch application",
		"version", Version,
		"build_time", BuildTime,
		"git_commit", GitCommit,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize relational database
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", "error", err)
	}
	defer db.Close(ctx)

	// Initialize relational store
	relStore, err := store.New(ctx, db)
	if err != nil {
		logger.Fatal("Failed to initialize store", "error", err)
	}

	// Initialize document store for ingested climate records
	docs, err := docstore.New(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal("Failed to initialize document store", "error", err)
	}
	defer docs.Close(ctx)

	if err := docs.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to ensure document store indexes", "error", err)
	}

	// Initialize ingestion pipeline and sources
	pipeline := ingest.New(docs, cfg.Upstream.MaxConcurrentFetches)
	weather := ingest.NewWeatherSource(cfg.Upstream)
	fire := ingest.NewFireSource(cfg.Upstream)
	oil := ingest.NewOilSlickSource(cfg.Upstream)

	if cfg.Upstream.FireMapKey == "" {
		logger.Warn("FIRE_MAP_KEY not set; fire data requests will fail upstream")
	}

	// Initialize rate limiter
	limiter := ratelimit.New(cfg.Redis)

	// Setup HTTP server
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.Logging)
	r.Use(middlewares.Metrics)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.WriteTimeout))
	r.Use(middlewares.Security)
	r.Use(middlewares.RateLimit(limiter))

	// Initialize API handlers
	apiHandler := api.NewHandler(relStore, docs, pipeline, weather, fire, oil, Version, BuildTime, GitCommit)
	apiHandler.RegisterRoutes(r)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		go startMetricsServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting HTTP server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

func startMetricsServer(port int, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info("Starting metrics server", "address", addr, "path", path)

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server failed", "error", err)
	}
}
