// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command tasks is the entry point for the task service.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and run migrations, when used.
//  4. Wire the identity resolver, task store and HTTP handlers.
//  5. Start HTTP server with graceful shutdown.
//
// The service owns no accounts; every request is resolved against the
// identity service at IDENTITY_SERVICE_URL.
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

	"github.com/taibuivan/authkit/internal/api"
	"github.com/taibuivan/authkit/internal/platform/config"
	"github.com/taibuivan/authkit/internal/platform/constants"
	"github.com/taibuivan/authkit/internal/platform/migration"
	pgstore "github.com/taibuivan/authkit/internal/platform/postgres"
	"github.com/taibuivan/authkit/internal/platform/sec"
	"github.com/taibuivan/authkit/internal/platform/session"
	"github.com/taibuivan/authkit/internal/resolver"
	"github.com/taibuivan/authkit/internal/task"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.LoadTasks()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage_driver", cfg.StorageDriver),
		slog.String("identity_service_url", cfg.IdentityServiceURL),
	)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	var checks []api.Check

	// ── 3. Storage ────────────────────────────────────────────────────────
	var repository task.Repository = task.NewMemoryRepository()
	if cfg.StorageDriver == config.DriverPostgres {
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, constants.ServiceTasks, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, "tasks_schema_migrations", log), "run migrations")

		checks = append(checks, api.Check{Name: "postgres", Ping: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		}})
		repository = task.NewPostgresRepository(pool)
	}

	// ── 4. Domain Wiring ──────────────────────────────────────────────────
	tokens, err := sec.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTIssuer, constants.CredentialTTL)
	must(log, err, "initialize token service")

	identityResolver := resolver.New(cfg.IdentityServiceURL, tokens, resolver.WithTimeout(cfg.IdentityLookupTimeout))
	transport := session.New(session.Options{
		SameSite: cfg.SameSite(),
		Secure:   cfg.CookieSecure,
	})
	handler := task.NewHandler(task.NewService(repository), transport, identityResolver)

	// ── 5. HTTP Server ────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(constants.ServiceTasks, log, checks...)
	server := api.NewServer(rootCtx, &cfg.Common, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Domain:    handler,
	})

	serve(log, server, rootCancel)
}

// newLogger builds the JSON root logger tagged with the app and service.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", constants.AppName),
		slog.String("service", constants.ServiceTasks),
	)
	slog.SetDefault(log)
	return log
}

// serve runs the server until a signal or a listen error, then shuts down.
func serve(log *slog.Logger, server *api.Server, stopBackground context.CancelFunc) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	stopBackground()

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		return
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
