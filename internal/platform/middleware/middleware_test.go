// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/authkit/internal/platform/apperr"
	"github.com/taibuivan/authkit/internal/platform/ctxutil"
	"github.com/taibuivan/authkit/internal/platform/middleware"
	"github.com/taibuivan/authkit/internal/platform/sec"
	"github.com/taibuivan/authkit/internal/platform/session"
)

type devConfig bool

func (d devConfig) IsDevelopment() bool { return bool(d) }

func newTokens(t *testing.T) *sec.TokenService {
	t.Helper()
	tokens, err := sec.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), "authkit", time.Hour)
	require.NoError(t, err)
	return tokens
}

// claimsProbe answers with the authenticated account id, or "anonymous".
var claimsProbe = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	if claims := ctxutil.GetClaims(request.Context()); claims != nil {
		_, _ = writer.Write([]byte(claims.AccountID))
		return
	}
	_, _ = writer.Write([]byte("anonymous"))
})

/*
TestAuthenticate_Lenient verifies that invalid credentials degrade to anonymous
instead of failing the request.
*/
func TestAuthenticate_Lenient(t *testing.T) {
	tokens := newTokens(t)
	valid, err := tokens.Issue(sec.Subject{ID: "acc-1", Role: sec.RoleUser})
	require.NoError(t, err)

	handler := middleware.Authenticate(session.New(session.Options{}), tokens)(claimsProbe)

	tests := []struct {
		name   string
		cookie string
		want   string
	}{
		{"NoCookie", "", "anonymous"},
		{"ValidCookie", valid, "acc-1"},
		{"GarbageCookie", "garbage", "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/login", nil)
			if tt.cookie != "" {
				request.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, tt.want, recorder.Body.String())
		})
	}
}

/*
TestRequireAuth verifies that anonymous requests get 401.
*/
func TestRequireAuth(t *testing.T) {
	tokens := newTokens(t)
	handler := middleware.Authenticate(session.New(session.Options{}), tokens)(middleware.RequireAuth(claimsProbe))

	request := httptest.NewRequest(http.MethodGet, "/user", nil)
	request.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

type stubResolver struct {
	identity *sec.Identity
	err      error
	gotRaw   string
}

func (stub *stubResolver) Resolve(_ context.Context, raw string) (*sec.Identity, error) {
	stub.gotRaw = raw
	return stub.identity, stub.err
}

/*
TestResolveIdentity verifies context injection and error propagation.
*/
func TestResolveIdentity(t *testing.T) {
	probe := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())
		_, _ = writer.Write([]byte(identity.ID + ":" + string(identity.Trust)))
	})

	t.Run("Resolved", func(t *testing.T) {
		resolver := &stubResolver{identity: &sec.Identity{ID: "acc-9", Trust: sec.TrustDegraded}}
		handler := middleware.ResolveIdentity(session.New(session.Options{}), resolver)(probe)

		request := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		request.AddCookie(&http.Cookie{Name: "token", Value: "raw"})
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "acc-9:degraded", recorder.Body.String())
		assert.Equal(t, "raw", resolver.gotRaw)
	})

	t.Run("Rejected", func(t *testing.T) {
		resolver := &stubResolver{err: apperr.Unauthorized("Not authorized, please login")}
		handler := middleware.ResolveIdentity(session.New(session.Options{}), resolver)(probe)

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/tasks", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("CallerGone", func(t *testing.T) {
		resolver := &stubResolver{err: context.Canceled}
		handler := middleware.ResolveIdentity(session.New(session.Options{}), resolver)(probe)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		request := httptest.NewRequest(http.MethodGet, "/tasks", nil).WithContext(ctx)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.False(t, recorder.Flushed)
		assert.Empty(t, recorder.Body.String())
		assert.Empty(t, recorder.Header().Get("Content-Type"))
	})
}

/*
TestStructuredLogger_ClientIP verifies the caller address is exposed to inner
handlers, preferring the forwarded address over the socket peer.
*/
func TestStructuredLogger_ClientIP(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	handler := middleware.StructuredLogger(logger)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(ctxutil.GetClientIP(request.Context())))
	}))

	request := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "203.0.113.9", recorder.Body.String())
}

/*
TestRateLimiter verifies that a client is cut off after its burst.
*/
func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := middleware.NewRateLimiter(ctx, 1, 2)
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
}

/*
TestCORS verifies credentialed access for the configured origin only.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(devConfig(false), "http://app.example.com/")(claimsProbe)

	allowed := httptest.NewRequest(http.MethodOptions, "/", nil)
	allowed.Header.Set("Origin", "http://app.example.com")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, allowed)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "http://app.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))

	denied := httptest.NewRequest(http.MethodGet, "/", nil)
	denied.Header.Set("Origin", "http://evil.example.com")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, denied)

	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}

/*
TestPanicRecovery verifies panics become 500 responses.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
