// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/authkit/internal/platform/apperr"
	"github.com/taibuivan/authkit/internal/platform/ctxutil"
	"github.com/taibuivan/authkit/internal/platform/respond"
	"github.com/taibuivan/authkit/internal/platform/sec"
)

// # Collaborators

// CredentialReader extracts the raw bearer credential from a request.
// [*session.Transport] satisfies it.
type CredentialReader interface {
	Read(request *http.Request) string
}

// CredentialVerifier verifies a raw credential locally. [*sec.TokenService]
// satisfies it.
type CredentialVerifier interface {
	Verify(raw string) (*sec.Claims, error)
}

// IdentityResolver turns a raw credential into a trusted identity, possibly
// calling out to the identity service.
type IdentityResolver interface {
	Resolve(context context.Context, raw string) (*sec.Identity, error)
}

// # Identity Service

// Authenticate verifies the credential cookie (or Bearer header) locally.
//
// # Flow
//  1. No credential: request proceeds as anonymous.
//  2. Credential present and valid: [*sec.Claims] injected into the context.
//  3. Credential present but invalid or stale: request also proceeds as
//     anonymous, so a leftover cookie never blocks /login or /register.
//
// Protected routes must additionally mount [RequireAuth].
func Authenticate(reader CredentialReader, verifier CredentialVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			raw := reader.Read(request)
			if raw == "" {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "credential_rejected",
					slog.String("reason", rejectionReason(err)),
				)
				next.ServeHTTP(writer, request)
				return
			}

			if scope := scopeFrom(request.Context()); scope != nil {
				scope.accountID = claims.AccountID
			}
			ctx := ctxutil.WithClaims(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetClaims(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Not authorized, please login"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// # Task Service

// ResolveIdentity authenticates every request on a service that does not own
// accounts.
//
// # Flow
//  1. Read the raw credential.
//  2. Hand it to the [IdentityResolver]; any error is written as-is (401 for
//     missing/invalid credentials, 404 for deleted accounts). When the caller
//     has already gone away nothing is written.
//  3. Inject [*sec.Identity] into the context; its Trust field tells handlers
//     whether the identity service confirmed it.
func ResolveIdentity(reader CredentialReader, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity, err := resolver.Resolve(request.Context(), reader.Read(request))
			if err != nil {
				if request.Context().Err() != nil {
					ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "identity_resolution_abandoned",
						slog.Any("error", err),
					)
					return
				}
				respond.Error(writer, request, err)
				return
			}

			if scope := scopeFrom(request.Context()); scope != nil {
				scope.accountID = identity.ID
				scope.trust = string(identity.Trust)
			}
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, sec.ErrExpired):
		return "expired"
	case errors.Is(err, sec.ErrBadSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}
