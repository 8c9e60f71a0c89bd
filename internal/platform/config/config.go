// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles service-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into strongly-typed
Go structs, providing early validation and default values.

Usage:

	cfg, err := config.LoadIdentity()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, TokenService) via constructors.
  - Zero Hidden State: No global variables are used to store config.

Each binary has its own struct; both embed [Common] so the signing secret and
cookie attributes are configured identically on every service.
*/
package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Drivers

const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// minSecretLength is the shortest HS256 secret we accept.
const minSecretLength = 32

// # Configuration Schema

// Common holds settings shared by the identity and task services.
type Common struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Credential signing. The secret must be identical on every service.
	JWTSecret string `env:"JWT_SECRET,required"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"authkit"`

	// ClientURL is the browser origin; it receives CORS credentials and is the
	// base of emailed links.
	ClientURL string `env:"CLIENT_URL" envDefault:"http://localhost:3000"`

	// Cookie attributes for the credential cookie
	CookieSameSite string `env:"COOKIE_SAMESITE" envDefault:"lax"`
	CookieSecure   bool   `env:"COOKIE_SECURE"   envDefault:"false"`

	// Relational Database (PostgreSQL)
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH"`
}

// Identity holds runtime configuration for the identity service.
type Identity struct {
	Common

	// Secret-token storage: postgres, redis or memory
	TokenStore string `env:"TOKEN_STORE" envDefault:"postgres"`

	// Key-Value Cache (Redis), required when TokenStore is redis
	RedisURL string `env:"REDIS_URL"`

	// Outbound mail. An empty host logs links instead of sending them.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"     envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM"     envDefault:"noreply@authkit.local"`
}

// Tasks holds runtime configuration for the task service.
type Tasks struct {
	Common

	// IdentityServiceURL is the base URL of the identity API, including /api/v1.
	IdentityServiceURL string `env:"IDENTITY_SERVICE_URL,required"`

	// IdentityLookupTimeout bounds each identity resolution call.
	IdentityLookupTimeout time.Duration `env:"IDENTITY_LOOKUP_TIMEOUT" envDefault:"5s"`
}

// # Configuration Loading

// LoadIdentity parses environment variables into an [Identity] struct.
func LoadIdentity() (*Identity, error) {
	cfg := &Identity{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	if cfg.MigrationPath == "" {
		cfg.MigrationPath = "./migrations/identity"
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTasks parses environment variables into a [Tasks] struct.
func LoadTasks() (*Tasks, error) {
	cfg := &Tasks{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	if cfg.MigrationPath == "" {
		cfg.MigrationPath = "./migrations/tasks"
	}
	if err := cfg.Common.validate(); err != nil {
		return nil, err
	}
	if cfg.IdentityLookupTimeout <= 0 {
		return nil, errors.New("config: IDENTITY_LOOKUP_TIMEOUT must be positive")
	}
	cfg.IdentityServiceURL = strings.TrimRight(cfg.IdentityServiceURL, "/")
	return cfg, nil
}

// # Validation

func (c *Common) validate() error {
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("config: JWT_SECRET must be at least %d bytes", minSecretLength)
	}

	sameSite, err := ParseSameSite(c.CookieSameSite)
	if err != nil {
		return err
	}
	if sameSite == http.SameSiteNoneMode && !c.CookieSecure {
		return errors.New("config: COOKIE_SAMESITE=none requires COOKIE_SECURE=true")
	}

	switch c.StorageDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	c.ClientURL = strings.TrimRight(c.ClientURL, "/")
	return nil
}

func (c *Identity) validate() error {
	if err := c.Common.validate(); err != nil {
		return err
	}

	switch c.TokenStore {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres token store")
		}
	case DriverRedis:
		if c.RedisURL == "" {
			return errors.New("config: REDIS_URL is required for the redis token store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown TOKEN_STORE %q", c.TokenStore)
	}
	return nil
}

// ParseSameSite maps a COOKIE_SAMESITE value onto [http.SameSite].
func ParseSameSite(value string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "lax", "":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("config: unknown COOKIE_SAMESITE %q", value)
	}
}

// SameSite returns the parsed cookie SameSite mode. It is only valid after Load.
func (c *Common) SameSite() http.SameSite {
	mode, _ := ParseSameSite(c.CookieSameSite)
	return mode
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Common) IsDevelopment() bool {
	return c.Environment == "development"
}
