// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Slidecraft render service.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"slidecraft/internal/browser"
	"slidecraft/internal/cache"
	"slidecraft/internal/config"
	"slidecraft/internal/database"
	"slidecraft/internal/deck"
	"slidecraft/internal/document"
	"slidecraft/internal/export"
	"slidecraft/internal/handlers"
	"slidecraft/internal/imaging"
	"slidecraft/internal/middleware"
	"slidecraft/internal/preview"
	"slidecraft/internal/rendermodel"
	"slidecraft/internal/router"
	"slidecraft/internal/storage"
	"slidecraft/internal/store"
)

func main() {
	// Load configuration from environment variables (and .env when present).
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON otherwise.
	slog.SetDefault(newLogger(cfg))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if _, err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the system templates and a demo carousel (no-op if data exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the shared document cache.
	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()
	documentCache := cache.NewDocumentCache(valkeyClient, cfg.DocumentTTL)

	// Keys fingerprint inputs, not the renderer, so documents from the
	// previous build are dropped on start.
	documentCache.InvalidateAll(ctx)

	// Connect to S3-compatible object storage. Without it documents still
	// render, but stored images are dropped and exports are refused.
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	var (
		objects export.Objects
		signer  deck.Signer
	)
	if storageClient != nil {
		objects, signer = storageClient, storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, exports disabled")
	}

	// Initialize data stores.
	accountStore := store.NewAccountStore(db)
	carouselStore := store.NewCarouselStore(db)
	templateStore := store.NewTemplateStore(db)
	brandKitStore := store.NewBrandKitStore(db)
	exportStore := store.NewExportStore(db)

	decks := &deck.Loader{
		Carousels:          carouselStore,
		Templates:          templateStore,
		BrandKits:          brandKitStore,
		Accounts:           accountStore,
		DefaultAttribution: cfg.AttributionText,
	}

	// Both surfaces share one builder, measuring with the embedded fonts.
	measurer, err := rendermodel.NewFontMeasurer()
	if err != nil {
		slog.Error("failed to load fonts", "error", err)
		os.Exit(1)
	}
	builder := rendermodel.NewBuilder(measurer)

	docs, err := document.New()
	if err != nil {
		slog.Error("failed to initialize document generator", "error", err)
		os.Exit(1)
	}

	fetcher := imaging.NewFetcher(cfg.RenderTimeout, 0)
	raster, err := preview.NewRasterizer(imaging.NewLoader(fetcher, 0))
	if err != nil {
		slog.Error("failed to initialize preview rasterizer", "error", err)
		os.Exit(1)
	}

	launcher := &browser.ChromeLauncher{
		ExecPath:  cfg.ChromePath,
		RemoteURL: cfg.ChromeRemoteURL,
		Timeout:   cfg.RenderTimeout,
		Settle:    cfg.RenderSettleDelay,
	}

	orchestrator := export.New(decks, exportStore, objects, fetcher, launcher, builder, docs, export.Config{
		MaxAttempts:    cfg.ExportMaxAttempts,
		RetryBackoff:   cfg.ExportRetryBackoff,
		URLTTL:         cfg.ExportURLTTL,
		MaterializeTTL: cfg.MaterializeURLTTL,
		FreeLimit:      cfg.ExportLimitFree,
		ProLimit:       cfg.ExportLimitPro,
		Budget:         cfg.ExportBudget,
	})

	// Create handler groups with their dependencies. Cached documents embed
	// signed URLs, so they are signed for longer than they are cached.
	exportHandlers := handlers.NewExports(orchestrator)
	slideHandlers := handlers.NewSlides(decks, signer, cfg.ExportURLTTL, builder, docs,
		document.NewCache(256, cfg.DocumentTTL), documentCache, raster)
	previewHandlers := handlers.NewPreview(builder, accountStore, cfg.AttributionText)

	var exportLimiter *middleware.RateLimiter
	if cfg.ExportRateLimit > 0 {
		exportLimiter = middleware.NewRateLimiter(cfg.ExportRateLimit, time.Minute)
		defer exportLimiter.Stop()
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(exportHandlers, slideHandlers, previewHandlers, exportLimiter)

	// Exports are cut off at EXPORT_BUDGET; the write timeout leaves room
	// to report that failure. Carousels too large for the budget fail with
	// a hint to download their slides one by one.
	writeTimeout := cfg.ExportBudget + 30*time.Second
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests, including running exports, time to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// newLogger builds the process logger from APP_ENV and LOG_LEVEL.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsDev() {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
