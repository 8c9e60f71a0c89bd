// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for both services.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: Credential lifetimes and cookie configuration.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "authkit"
	AppVersion = "0.1.0-dev"

	ServiceIdentity = "identity"
	ServiceTasks    = "tasks"

	// APIPrefix is the versioned mount point for every domain router.
	APIPrefix = "/api/v1"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// DefaultAuthIssuer is the standard 'iss' claim in issued credentials.
	DefaultAuthIssuer = "authkit"

	// CredentialTTL is the lifetime of a bearer credential. There is no refresh
	// token: the client logs in again after expiry.
	CredentialTTL = 30 * 24 * time.Hour

	// CredentialCookieName carries the bearer credential between client and services.
	CredentialCookieName = "token"

	// CredentialCookiePath scopes the cookie to every route of both services.
	CredentialCookiePath = "/"

	// IdentityLookupTimeout bounds the task service's call to the identity service.
	IdentityLookupTimeout = 5 * time.Second

	// IdentityLookupMaxBody caps the identity-lookup response we are willing to decode.
	IdentityLookupMaxBody = 64 << 10
)

// # Secret Tokens

const (
	// VerificationTokenTTL is how long an email verification link stays usable.
	VerificationTokenTTL = 24 * time.Hour

	// ResetTokenTTL is how long a password reset link stays usable.
	ResetTokenTTL = 1 * time.Hour

	// SecretTokenBytes is the amount of randomness in a raw secret token (512 bits).
	SecretTokenBytes = 64

	// SecretTokenRetention keeps expired rows around long enough to report
	// "expired" rather than "not found" before the janitor purges them.
	SecretTokenRetention = 24 * time.Hour

	// SecretTokenPurgeInterval is how often the janitor sweeps expired rows.
	SecretTokenPurgeInterval = 15 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
	HeaderCookie        = "Cookie"
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldCode    = "code"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
	FieldService = "service"
	FieldVersion = "version"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSecretToken = "auth:secret_token:"
	RedisPrefixAccountSlot = "auth:secret_token_account:"
)
