// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/accounts/internal/platform/apperr"
	"github.com/taibuivan/accounts/internal/platform/constants"
	"github.com/taibuivan/accounts/internal/platform/sec"
	"github.com/taibuivan/accounts/internal/testutil"
	"github.com/taibuivan/accounts/internal/users/account"
	"github.com/taibuivan/accounts/internal/users/auth"
	"github.com/taibuivan/accounts/pkg/uuid"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
}

type server struct {
	*fixture
	router http.Handler
	codec  *sec.TokenCodec
}

func newServer(t *testing.T) *server {
	t.Helper()
	f := newFixture(t)
	codec := testutil.NewCodec(t, testutil.NewClock())

	router := chi.NewRouter()
	account.NewHandler(f.service, auth.NewGate(codec, f.sessions)).Routes(router)

	return &server{fixture: f, router: router, codec: codec}
}

// cookieFor mints an access token cookie for userID.
func (s *server) cookieFor(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	token, _, err := s.codec.Issue(sec.TokenAccess, map[string]string{"id": userID})
	require.NoError(t, err)
	return &http.Cookie{Name: constants.AccessTokenCookieName, Value: token}
}

func (s *server) call(t *testing.T, method, path string, body any, cookie *http.Cookie) (int, envelope) {
	t.Helper()

	var reader bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reader).Encode(body))
	}

	request := httptest.NewRequest(method, path, &reader)
	if cookie != nil {
		request.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, request)

	var decoded envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded), recorder.Body.String())
	return recorder.Code, decoded
}

/*
TestHTTP_Me verifies the session requirement and the cached profile.
*/
func TestHTTP_Me(t *testing.T) {
	s := newServer(t)
	s.seed(t, "u1", "Ann", "a@x.com")

	status, body := s.call(t, http.MethodGet, "/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperr.CodeUnauthenticated, body.Code)

	status, body = s.call(t, http.MethodGet, "/me", nil, s.cookieFor(t, "u1"))
	require.Equal(t, http.StatusOK, status)

	var user auth.User
	require.NoError(t, json.Unmarshal(body.Data, &user))
	assert.Equal(t, "a@x.com", user.Email)

	// The token is still valid but the session is gone.
	require.NoError(t, s.sessions.Evict(t.Context(), "u1"))
	status, body = s.call(t, http.MethodGet, "/me", nil, s.cookieFor(t, "u1"))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperr.CodeSessionExpired, body.Code)
}

/*
TestHTTP_ProfileUpdates verifies the three update endpoints end to end.
*/
func TestHTTP_ProfileUpdates(t *testing.T) {
	s := newServer(t)
	s.seed(t, "u1", "Ann", "a@x.com")
	cookie := s.cookieFor(t, "u1")

	status, body := s.call(t, http.MethodPut, "/update-user-info", map[string]string{"name": "Ann Lee"}, cookie)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body.Data), `"name":"Ann Lee"`)

	status, body = s.call(t, http.MethodPut, "/update-user-password",
		map[string]string{"oldPassword": "wrong", "newPassword": "pw2"}, cookie)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperr.CodeInvalidCredentials, body.Code)

	status, _ = s.call(t, http.MethodPut, "/update-user-password",
		map[string]string{"oldPassword": "pw1", "newPassword": "pw2"}, cookie)
	assert.Equal(t, http.StatusOK, status)

	s.avatars.On("Put", mock.Anything, mock.Anything, "image/png", pngBytes).Return("https://cdn/a.png", nil).Once()
	status, body = s.call(t, http.MethodPut, "/update-user-avatar", map[string]string{"avatar": pngDataURL}, cookie)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body.Data), "https://cdn/a.png")

	// The gate now serves the updated snapshot.
	status, body = s.call(t, http.MethodGet, "/me", nil, cookie)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body.Data), "Ann Lee")
	assert.Contains(t, string(body.Data), "https://cdn/a.png")
}

/*
TestHTTP_AdminRoutes verifies the role gate and the admin operations.
*/
func TestHTTP_AdminRoutes(t *testing.T) {
	s := newServer(t)
	adminID, memberID := uuid.New(), uuid.New()
	s.seed(t, adminID, "Ann", "a@x.com")
	s.seed(t, memberID, "Bob", "b@x.com")

	_, err := s.service.UpdateRole(t.Context(), adminID, string(sec.RoleAdmin))
	require.NoError(t, err)

	admin := s.cookieFor(t, adminID)
	member := s.cookieFor(t, memberID)

	status, body := s.call(t, http.MethodGet, "/admin/users", nil, member)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperr.CodeForbidden, body.Code)

	status, body = s.call(t, http.MethodGet, "/admin/users?page=1&limit=1", nil, admin)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"page":1,"limit":1,"total":2,"total_pages":2}`, string(body.Meta))

	status, body = s.call(t, http.MethodPut, "/admin/users/role", map[string]string{"userId": memberID, "role": "superuser"}, admin)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperr.CodeValidation, body.Code)

	status, body = s.call(t, http.MethodPut, "/admin/users/role", map[string]string{"userId": "u2", "role": "admin"}, admin)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperr.CodeValidation, body.Code)

	status, _ = s.call(t, http.MethodPut, "/admin/users/role", map[string]string{"userId": memberID, "role": "admin"}, admin)
	assert.Equal(t, http.StatusOK, status)

	// The promoted member passes the role gate on the next request.
	status, _ = s.call(t, http.MethodGet, "/admin/users", nil, member)
	assert.Equal(t, http.StatusOK, status)

	status, body = s.call(t, http.MethodDelete, "/admin/users/not-a-uuid", nil, admin)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperr.CodeValidation, body.Code)

	status, body = s.call(t, http.MethodDelete, "/admin/users/"+memberID, nil, admin)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User deleted successfully", body.Message)

	// The deleted user's session is gone with the account.
	status, body = s.call(t, http.MethodGet, "/me", nil, member)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperr.CodeSessionExpired, body.Code)

	status, body = s.call(t, http.MethodDelete, "/admin/users/"+memberID, nil, admin)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperr.CodeNotFound, body.Code)
}
