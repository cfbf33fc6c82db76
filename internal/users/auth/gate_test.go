// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/accounts/internal/platform/apperr"
	"github.com/taibuivan/accounts/internal/platform/sec"
	"github.com/taibuivan/accounts/internal/users/auth"
)

/*
TestGate_Authenticate verifies every resolution outcome of an access token.
*/
func TestGate_Authenticate(t *testing.T) {
	f := newFixture(t)
	user := f.activeUser(t, "Ann", "a@x.com", "pw1")
	session, err := f.service.Login(context.Background(), auth.LoginInput{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		resolved, err := f.gate.Authenticate(context.Background(), session.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, resolved.ID)
		assert.Empty(t, resolved.PasswordHash)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := f.gate.Authenticate(context.Background(), "")
		assert.True(t, apperr.HasCode(err, apperr.CodeUnauthenticated))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := f.gate.Authenticate(context.Background(), "garbage")
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidToken))
	})

	t.Run("refresh_token_presented", func(t *testing.T) {
		_, err := f.gate.Authenticate(context.Background(), session.RefreshToken)
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidToken))
	})

	t.Run("cache_down", func(t *testing.T) {
		f.redis.SetError("ERR cache unavailable")
		defer f.redis.SetError("")

		_, err := f.gate.Authenticate(context.Background(), session.AccessToken)
		assert.True(t, apperr.HasCode(err, apperr.CodeUpstreamFailure))
	})

	t.Run("within_leeway", func(t *testing.T) {
		f.clock.Advance(5*time.Minute + time.Second)
		defer f.clock.Advance(-(5*time.Minute + time.Second))

		_, err := f.gate.Authenticate(context.Background(), session.AccessToken)
		assert.NoError(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		f.clock.Advance(5*time.Minute + 3*time.Second)

		_, err := f.gate.Authenticate(context.Background(), session.AccessToken)
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidToken))
	})
}

/*
TestGate_ResolveSession verifies that failures never yield a non-nil identity.
*/
func TestGate_ResolveSession(t *testing.T) {
	f := newFixture(t)

	identity, err := f.gate.ResolveSession(context.Background(), "")
	assert.Error(t, err)
	assert.Nil(t, identity)
}

/*
TestGate_Authorize verifies the flat membership check.
*/
func TestGate_Authorize(t *testing.T) {
	f := newFixture(t)
	admin := &auth.User{ID: "a", Role: sec.RoleAdmin}
	member := &auth.User{ID: "u", Role: sec.RoleUser}

	assert.NoError(t, f.gate.Authorize(admin, sec.RoleAdmin))
	assert.NoError(t, f.gate.Authorize(member, sec.RoleAdmin, sec.RoleUser))

	err := f.gate.Authorize(member, sec.RoleAdmin)
	var appError *apperr.AppError
	require.True(t, errors.As(err, &appError))
	assert.Equal(t, apperr.CodeForbidden, appError.Code)
	assert.Equal(t, "Role user is not allowed to access this resource", appError.Message)

	assert.True(t, apperr.HasCode(f.gate.Authorize(nil), apperr.CodeUnauthenticated))
}
