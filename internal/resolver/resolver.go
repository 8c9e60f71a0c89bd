// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package resolver turns a bearer credential into a caller identity on services
that do not own accounts.

# Flow

The credential is verified locally first. The identity service is then asked
for the account (GET {base}/user/{id}) with the credential forwarded as a
cookie, and the end user's address in X-Forwarded-For. Its answer decides
the outcome:

  - 200 with a matching account: the identity is trusted ([sec.TrustRemote]).
  - 404: the account is gone; the request fails.
  - 401: the identity service rejected the credential; the request fails.
  - Anything else: the identity is rebuilt from the claims and marked
    [sec.TrustDegraded]. No retries.
*/
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/authkit/internal/platform/apperr"
	"github.com/taibuivan/authkit/internal/platform/constants"
	"github.com/taibuivan/authkit/internal/platform/ctxutil"
	"github.com/taibuivan/authkit/internal/platform/sec"
)

var (
	// ErrUnauthenticated is returned for missing, invalid or remotely rejected credentials.
	ErrUnauthenticated = apperr.Unauthorized("Not authorized, please login")

	// ErrAccountNotFound is returned when the identity service no longer knows the account.
	ErrAccountNotFound = apperr.New(http.StatusNotFound, "ACCOUNT_NOT_FOUND", "User not found")
)

// Fallback attributes for degraded identities whose claims lack them.
const (
	fallbackName  = "Unknown"
	fallbackEmail = "unknown@example.com"
)

// Verifier verifies a raw credential locally. [*sec.TokenService] satisfies it.
type Verifier interface {
	Verify(raw string) (*sec.Claims, error)
}

// Resolver asks the identity service who the caller is.
type Resolver struct {
	baseURL  string
	verifier Verifier
	client   *http.Client
	timeout  time.Duration
}

// Option customizes a [Resolver].
type Option func(*Resolver)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(resolver *Resolver) {
		resolver.client = client
	}
}

// WithTimeout overrides the per-lookup deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(resolver *Resolver) {
		resolver.timeout = timeout
	}
}

// New creates a Resolver for the identity API at baseURL (including /api/v1).
func New(baseURL string, verifier Verifier, opts ...Option) *Resolver {
	resolver := &Resolver{
		baseURL:  strings.TrimRight(baseURL, "/"),
		verifier: verifier,
		client:   &http.Client{},
		timeout:  constants.IdentityLookupTimeout,
	}
	for _, opt := range opts {
		opt(resolver)
	}
	return resolver
}

// remoteProfile is the subset of the public projection the resolver reads.
type remoteProfile struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

/*
Resolve returns the caller identity for raw.

Parameters:
  - context: context.Context (the request context; its cancellation wins)
  - raw: string

Returns:
  - *sec.Identity: Remote or degraded identity
  - error: ErrUnauthenticated, ErrAccountNotFound, or the context error
*/
func (resolver *Resolver) Resolve(context context.Context, raw string) (*sec.Identity, error) {
	if raw == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := resolver.verifier.Verify(raw)
	if err != nil {
		return nil, ErrUnauthenticated.WithCause(err)
	}

	identity, lookupErr := resolver.lookup(context, raw, claims.AccountID)

	// A caller that has gone away gets nothing, whatever the lookup produced.
	if err := context.Err(); err != nil {
		return nil, fmt.Errorf("identity_resolution_abandoned: %w", err)
	}

	var appError *apperr.AppError
	switch {
	case lookupErr == nil:
		return identity, nil
	case errors.As(lookupErr, &appError):
		return nil, lookupErr
	}

	ctxutil.GetLogger(context).WarnContext(context, "identity_resolution_degraded",
		slog.String("account_id", claims.AccountID),
		slog.Any("error", lookupErr),
	)
	return degraded(claims), nil
}

// lookup performs the remote call. AppErrors are final; any other error
// means the identity service could not vouch for the account.
func (resolver *Resolver) lookup(parent context.Context, raw, accountID string) (*sec.Identity, error) {
	ctx, cancel := context.WithTimeout(parent, resolver.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/user/%s", resolver.baseURL, url.PathEscape(accountID))
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("identity_lookup_request_failed: %w", err)
	}
	request.AddCookie(&http.Cookie{Name: constants.CredentialCookieName, Value: raw})
	request.Header.Set("Accept", "application/json")
	if requestID := ctxutil.GetRequestID(parent); requestID != "" {
		request.Header.Set(constants.HeaderXRequestID, requestID)
	}
	// The identity service rate-limits per client address; without this every
	// lookup would share the task service's own bucket.
	if clientIP := ctxutil.GetClientIP(parent); clientIP != "" {
		request.Header.Set(constants.HeaderXForwardedFor, clientIP)
	}

	response, err := resolver.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("identity_lookup_unreachable: %w", err)
	}
	defer response.Body.Close()

	switch response.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrAccountNotFound
	case http.StatusUnauthorized:
		return nil, ErrUnauthenticated
	default:
		return nil, fmt.Errorf("identity_lookup_unexpected_status: %d", response.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, constants.IdentityLookupMaxBody+1))
	if err != nil {
		return nil, fmt.Errorf("identity_lookup_read_failed: %w", err)
	}
	if len(body) > constants.IdentityLookupMaxBody {
		return nil, errors.New("identity_lookup_body_too_large")
	}

	var profile remoteProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("identity_lookup_malformed_body: %w", err)
	}
	if profile.ID != accountID {
		return nil, fmt.Errorf("identity_lookup_id_mismatch: got %q", profile.ID)
	}

	role := sec.UserRole(profile.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("identity_lookup_invalid_role: %q", profile.Role)
	}

	return &sec.Identity{
		ID:    profile.ID,
		Name:  profile.Name,
		Email: profile.Email,
		Role:  role,
		Trust: sec.TrustRemote,
	}, nil
}

// degraded rebuilds the identity from claims alone.
func degraded(claims *sec.Claims) *sec.Identity {
	identity := &sec.Identity{
		ID:    claims.AccountID,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  sec.UserRole(claims.Role),
		Trust: sec.TrustDegraded,
	}
	if identity.Name == "" {
		identity.Name = fallbackName
	}
	if identity.Email == "" {
		identity.Email = fallbackEmail
	}
	if !identity.Role.Valid() {
		identity.Role = sec.RoleUser
	}
	return identity
}
