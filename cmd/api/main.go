// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the gig poster search HTTP API.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Run database migrations (idempotent).
//  5. Connect to Redis when configured.
//  6. Build the search engine and wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/taibuivan/gigposter/internal/api"
	"github.com/taibuivan/gigposter/internal/catalog"
	"github.com/taibuivan/gigposter/internal/platform/config"
	"github.com/taibuivan/gigposter/internal/platform/constants"
	"github.com/taibuivan/gigposter/internal/platform/migration"
	pgstore "github.com/taibuivan/gigposter/internal/platform/postgres"
	redisstore "github.com/taibuivan/gigposter/internal/platform/redis"
	"github.com/taibuivan/gigposter/internal/search"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Float64("search_threshold", cfg.SearchThreshold),
		slog.Int("search_workers", cfg.SearchWorkers),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("postgres_pool_closing")
		pool.Close()
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. Redis (optional) ───────────────────────────────────────────────
	var cache search.Cache
	var checkCache func(context.Context) error

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("redis_client_closing")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		cache = search.NewRedisCache(rdb, cfg.SearchCacheTTL)
		checkCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	} else {
		log.Info("search_cache_disabled")
	}

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	repository := catalog.NewPostgresRepository(pool)

	engineOptions := []search.Option{
		search.WithLogger(log),
		search.WithPoolSize(cfg.SearchWorkers),
	}
	if cfg.SearchLexiconPath != "" {
		lexicon, err := search.LoadLexicon(cfg.SearchLexiconPath)
		must(log, err, "load search lexicon")
		engineOptions = append(engineOptions, search.WithLexicon(lexicon))
		log.Info("search_lexicon_loaded", slog.String("path", cfg.SearchLexiconPath))
	}

	engine, err := search.NewEngine(repository, engineOptions...)
	must(log, err, "build search engine")
	defer engine.Release()

	searchService := search.NewService(engine, cache, search.Settings{
		Threshold: cfg.SearchThreshold,
		Timeout:   cfg.SearchTimeout,
	}, log)

	catalogService := catalog.NewService(repository, log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: catalogService.Ping,
		CheckCache:    checkCache,
	}, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Search:    search.NewHandler(searchService),
		Catalog:   catalog.NewHandler(catalogService),
	}

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	server := api.NewServer(rootCtx, cfg, log, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
