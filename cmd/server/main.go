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

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/trip-planner-backend/internal/app"
	"github.com/nekogravitycat/trip-planner-backend/internal/config"
	"github.com/nekogravitycat/trip-planner-backend/internal/db"
	"github.com/nekogravitycat/trip-planner-backend/internal/logger"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.IsProduction)
	slog.SetDefault(log)

	// Connect DB (optional: backs the catalog and the postgres kv backend)
	var pool *pgxpool.Pool
	if cfg.DBDSN != "" {
		pool, err = db.NewPool(ctx, cfg.DBDSN, int32(cfg.DBMaxConns))
		if err != nil {
			log.Error("failed to connect to db", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
	}

	// Open planning state storage
	kv, closeKV, err := app.OpenKV(ctx, cfg, pool)
	if err != nil {
		log.Error("failed to open kv store", slog.String("backend", cfg.KVBackend), slog.Any("error", err))
		os.Exit(1)
	}
	defer closeKV()

	container := app.NewContainer(app.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		Logger:             log,
		KV:                 kv,
		CatalogPool:        pool,
		JWTSecret:          cfg.JWTSecret,
		JWTTTL:             cfg.JWTAccessTokenTTL,
		SessionIdleTTL:     cfg.SessionIdleTTL,
		StrictCategories:   cfg.StrictCategories,
		CatalogCacheTTL:    cfg.CatalogCacheTTL,
		CheckoutRatePerMin: cfg.CheckoutRatePerMin,
		CheckoutBaseURL:    cfg.CheckoutBaseURL,
	})

	// Drop idle rate-limit entries in the background
	go container.RateLimiter.Run(ctx.Done())

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		log.Info("server running", slog.String("addr", cfg.HTTPAddr), slog.String("kv_backend", cfg.KVBackend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.Any("error", err))
			stop()
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	log.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("server forced to shutdown", slog.Any("error", err))
	}

	log.Info("server exited gracefully")
}
