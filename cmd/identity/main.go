// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command identity is the entry point for the account owner service.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and run migrations, when used.
//  4. Connect to Redis, when it holds secret tokens.
//  5. Wire stores, credential signing, mail and HTTP handlers.
//  6. Start the secret-token janitor.
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

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/authkit/internal/api"
	"github.com/taibuivan/authkit/internal/identity"
	"github.com/taibuivan/authkit/internal/platform/config"
	"github.com/taibuivan/authkit/internal/platform/constants"
	"github.com/taibuivan/authkit/internal/platform/mail"
	"github.com/taibuivan/authkit/internal/platform/migration"
	pgstore "github.com/taibuivan/authkit/internal/platform/postgres"
	redisstore "github.com/taibuivan/authkit/internal/platform/redis"
	"github.com/taibuivan/authkit/internal/platform/sec"
	"github.com/taibuivan/authkit/internal/platform/session"
	"github.com/taibuivan/authkit/internal/secrettoken"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.LoadIdentity()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage_driver", cfg.StorageDriver),
		slog.String("token_store", cfg.TokenStore),
	)

	// Root context for background work; cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Startup deadline so misconfiguration is caught quickly.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	var checks []api.Check

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	var pool *pgxpool.Pool
	if cfg.StorageDriver == config.DriverPostgres || cfg.TokenStore == config.DriverPostgres {
		pool, err = pgstore.NewPool(startupCtx, cfg.DatabaseURL, constants.ServiceIdentity, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, "identity_schema_migrations", log), "run migrations")

		checks = append(checks, api.Check{Name: "postgres", Ping: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		}})
	}

	// ── 4. Redis ──────────────────────────────────────────────────────────
	var rdb *goredis.Client
	if cfg.TokenStore == config.DriverRedis {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		checks = append(checks, api.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}})
	}

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	tokens, err := sec.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTIssuer, constants.CredentialTTL)
	must(log, err, "initialize token service")

	var accounts identity.AccountRepository = identity.NewMemoryAccountRepository()
	if cfg.StorageDriver == config.DriverPostgres {
		accounts = identity.NewPostgresAccountRepository(pool)
	}

	var store secrettoken.Store
	switch cfg.TokenStore {
	case config.DriverPostgres:
		store = secrettoken.NewPostgresStore(pool)
	case config.DriverRedis:
		store = secrettoken.NewRedisStore(rdb)
	default:
		store = secrettoken.NewMemoryStore()
	}
	manager := secrettoken.NewManager(store)

	var mailer mail.Sender = mail.NewLogSender(log)
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	} else {
		log.Warn("smtp_not_configured")
	}

	transport := session.New(session.Options{
		SameSite: cfg.SameSite(),
		Secure:   cfg.CookieSecure,
	})

	service := identity.NewService(accounts, tokens, manager, mailer, cfg.ClientURL)
	handler := identity.NewHandler(service, transport, tokens)

	// ── 6. Secret-Token Janitor ───────────────────────────────────────────
	go manager.RunJanitor(rootCtx, constants.SecretTokenPurgeInterval, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(constants.ServiceIdentity, log, checks...)
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
		slog.String("service", constants.ServiceIdentity),
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

	// Block until OS signal or server error.
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
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
