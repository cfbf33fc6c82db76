// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/accounts/internal/platform/apperr"
	"github.com/taibuivan/accounts/internal/platform/constants"
	"github.com/taibuivan/accounts/internal/platform/ctxutil"
	"github.com/taibuivan/accounts/internal/platform/middleware"
	"github.com/taibuivan/accounts/internal/platform/sec"
)

type caller struct {
	id   string
	role sec.UserRole
}

func (c caller) IdentityID() string         { return c.id }
func (c caller) IdentityRole() sec.UserRole { return c.role }

type stubResolver struct {
	identity sec.Identity
	err      error
	seen     string
}

func (s *stubResolver) ResolveSession(_ context.Context, token string) (sec.Identity, error) {
	s.seen = token
	return s.identity, s.err
}

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusNoContent)
})

func decodeCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.False(t, body.Success)
	return body.Code
}

/*
TestRequireSession_Passes verifies that the resolved caller reaches the handler.
*/
func TestRequireSession_Passes(t *testing.T) {
	resolver := &stubResolver{identity: caller{id: "u1", role: sec.RoleUser}}

	var got sec.Identity
	handler := middleware.RequireSession(resolver)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		got = ctxutil.GetIdentity(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: "tok"})
	handler.ServeHTTP(httptest.NewRecorder(), request)

	require.NotNil(t, got)
	assert.Equal(t, "u1", got.IdentityID())
	assert.Equal(t, "tok", resolver.seen)
}

/*
TestRequireSession_Rejects verifies that resolver errors are rendered as envelopes.
*/
func TestRequireSession_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"no_cookie", apperr.Unauthenticated("Please login to access this resource"), http.StatusUnauthorized, apperr.CodeUnauthenticated},
		{"bad_token", apperr.InvalidToken("Access token is not valid", nil), http.StatusBadRequest, apperr.CodeInvalidToken},
		{"evicted", apperr.SessionExpired(), http.StatusUnauthorized, apperr.CodeSessionExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.RequireSession(&stubResolver{err: tt.err})(okHandler)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/me", nil))

			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, tt.code, decodeCode(t, recorder))
		})
	}
}

/*
TestRequireRoles verifies the flat membership check.
*/
func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name     string
		identity sec.Identity
		status   int
	}{
		{"admin_allowed", caller{id: "a", role: sec.RoleAdmin}, http.StatusNoContent},
		{"user_forbidden", caller{id: "u", role: sec.RoleUser}, http.StatusForbidden},
		{"anonymous", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			if tt.identity != nil {
				request = request.WithContext(ctxutil.WithIdentity(request.Context(), tt.identity))
			}

			recorder := httptest.NewRecorder()
			middleware.RequireRoles(sec.RoleAdmin)(okHandler).ServeHTTP(recorder, request)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

/*
TestRateLimiter verifies that the burst is honoured and then refused.
*/
func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.NewRateLimiter(ctx, 0.001, 2).Middleware()(okHandler)

	statuses := make([]int, 0, 3)
	for range 3 {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderXRealIP, "10.0.0.1")
		handler.ServeHTTP(recorder, request)
		statuses = append(statuses, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, statuses)
}

/*
TestPanicRecovery verifies that a panic becomes a 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, apperr.CodeInternal, decodeCode(t, recorder))
}

type corsConfig struct {
	dev     bool
	origins []string
}

func (c corsConfig) IsDevelopment() bool      { return c.dev }
func (c corsConfig) AllowedOrigins() []string { return c.origins }

/*
TestCORS verifies the allow-list and the development fallback.
*/
func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		cfg     corsConfig
		origin  string
		allowed bool
	}{
		{"listed", corsConfig{origins: []string{"https://app.example.com"}}, "https://app.example.com", true},
		{"unlisted", corsConfig{origins: []string{"https://app.example.com"}}, "https://evil.example.com", false},
		{"dev_open", corsConfig{dev: true}, "http://localhost:3000", true},
		{"prod_closed", corsConfig{}, "http://localhost:3000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set(constants.HeaderOrigin, tt.origin)
			recorder := httptest.NewRecorder()

			middleware.CORS(tt.cfg)(okHandler).ServeHTTP(recorder, request)

			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}
