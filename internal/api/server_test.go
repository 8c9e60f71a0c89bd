// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/authkit/internal/api"
	"github.com/taibuivan/authkit/internal/platform/config"
	"github.com/taibuivan/authkit/internal/platform/constants"
	"github.com/taibuivan/authkit/internal/platform/respond"
)

type pingHandler struct{}

func (pingHandler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/ping", func(writer http.ResponseWriter, _ *http.Request) {
		respond.Message(writer, "pong")
	})
	router.Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	return router
}

func newServer(t *testing.T, checks ...api.Check) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	liveness, readiness := api.NewHealthHandlers(constants.ServiceTasks, logger, checks...)
	cfg := &config.Common{
		ServerPort:  "0",
		Environment: "production",
		ClientURL:   "http://app.example.com",
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := api.NewServer(ctx, cfg, logger, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Domain:    pingHandler{},
	})

	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)
	return httpServer
}

func get(t *testing.T, url string, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()

	request, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for key, value := range headers {
		request.Header.Set(key, value)
	}

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	body := map[string]any{}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&body))
	return response, body
}

/*
TestServer_Routing verifies the API prefix, request ids and CORS.
*/
func TestServer_Routing(t *testing.T) {
	server := newServer(t)

	response, body := get(t, server.URL+constants.APIPrefix+"/ping", map[string]string{
		constants.HeaderOrigin: "http://app.example.com",
	})
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "pong", body["message"])
	assert.NotEmpty(t, response.Header.Get(constants.HeaderXRequestID))
	assert.Equal(t, "http://app.example.com", response.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", response.Header.Get("Access-Control-Allow-Credentials"))

	response, _ = get(t, server.URL+constants.APIPrefix+"/ping", map[string]string{
		constants.HeaderOrigin: "http://evil.example.com",
	})
	assert.Empty(t, response.Header.Get("Access-Control-Allow-Origin"))
}

/*
TestServer_PanicRecovery verifies a panicking handler yields a 500 envelope.
*/
func TestServer_PanicRecovery(t *testing.T) {
	server := newServer(t)

	response, body := get(t, server.URL+constants.APIPrefix+"/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
}

/*
TestHealth verifies liveness and readiness with healthy and failing checks.
*/
func TestHealth(t *testing.T) {
	healthy := api.Check{Name: "postgres", Ping: func(context.Context) error { return nil }}
	failing := api.Check{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }}

	t.Run("liveness", func(t *testing.T) {
		server := newServer(t, failing)
		response, body := get(t, server.URL+"/health", nil)
		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, constants.ServiceTasks, body["service"])
	})

	t.Run("ready", func(t *testing.T) {
		server := newServer(t, healthy)
		response, body := get(t, server.URL+"/ready", nil)
		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.Equal(t, "ready", body["status"])
	})

	t.Run("degraded", func(t *testing.T) {
		server := newServer(t, healthy, failing)
		response, body := get(t, server.URL+"/ready", nil)
		assert.Equal(t, http.StatusServiceUnavailable, response.StatusCode)
		assert.Equal(t, "degraded", body["status"])

		checks, ok := body["checks"].([]any)
		require.True(t, ok)
		assert.Len(t, checks, 2)
	})
}
