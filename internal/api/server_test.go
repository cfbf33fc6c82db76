// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/accounts/internal/api"
	"github.com/taibuivan/accounts/internal/platform/apperr"
	"github.com/taibuivan/accounts/internal/platform/config"
	"github.com/taibuivan/accounts/internal/testutil"
	"github.com/taibuivan/accounts/internal/users/account"
	"github.com/taibuivan/accounts/internal/users/auth"
)

func newHandler(t *testing.T, deps api.HealthDependencies) http.Handler {
	t.Helper()

	logger := testutil.NoopLogger()
	codec := testutil.NewCodec(t, testutil.NewClock())
	sessions, _ := testutil.NewSessions(t)
	users := testutil.NewMemoryUsers()

	gate := auth.NewGate(codec, sessions)
	authService := auth.NewService(users, sessions, codec, &testutil.Outbox{}, logger)
	accountService := account.NewService(users, sessions, nil, logger)

	liveness, readiness := api.NewHealthHandlers(deps, logger)

	cfg := &config.Config{ServerPort: "0", Environment: "production", Origin: "https://app.example.com"}
	server := api.NewServer(t.Context(), cfg, logger, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, gate, true),
		Account:   account.NewHandler(accountService, gate),
	})
	return server.Handler()
}

func serve(handler http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestServer_Health verifies the liveness and readiness endpoints.
*/
func TestServer_Health(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	handler := newHandler(t, api.HealthDependencies{CheckDatabase: ok, CheckCache: ok})
	assert.Equal(t, http.StatusOK, serve(handler, http.MethodGet, "/health", "").Code)

	recorder := serve(handler, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"ready"`)

	handler = newHandler(t, api.HealthDependencies{CheckDatabase: ok, CheckCache: down})
	recorder = serve(handler, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "connection refused")
	assert.Contains(t, recorder.Body.String(), `"status":"degraded"`)
}

/*
TestServer_Routes verifies that both domains are mounted under /api/v1 and
that unknown routes get the error envelope.
*/
func TestServer_Routes(t *testing.T) {
	handler := newHandler(t, api.HealthDependencies{})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"login_validation", http.MethodPost, "/api/v1/login", `{}`, http.StatusBadRequest, apperr.CodeValidation},
		{"refresh_without_cookie", http.MethodGet, "/api/v1/refresh", "", http.StatusBadRequest, apperr.CodeInvalidToken},
		{"me_requires_session", http.MethodGet, "/api/v1/me", "", http.StatusUnauthorized, apperr.CodeUnauthenticated},
		{"admin_requires_session", http.MethodGet, "/api/v1/admin/users", "", http.StatusUnauthorized, apperr.CodeUnauthenticated},
		{"unknown_route", http.MethodGet, "/api/v1/comics", "", http.StatusNotFound, apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(handler, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, recorder.Code)

			var body struct {
				Success bool   `json:"success"`
				Code    string `json:"code"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

/*
TestServer_CORS verifies the origin allow-list with credentials.
*/
func TestServer_CORS(t *testing.T) {
	handler := newHandler(t, api.HealthDependencies{})

	request := httptest.NewRequest(http.MethodOptions, "/api/v1/login", nil)
	request.Header.Set("Origin", "https://app.example.com")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "https://app.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))

	request = httptest.NewRequest(http.MethodOptions, "/api/v1/login", nil)
	request.Header.Set("Origin", "https://evil.example.com")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}
