// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"

	"github.com/taibuivan/accounts/internal/platform/apperr"
	"github.com/taibuivan/accounts/internal/platform/sec"
)

// # Authorization Gate

// Gate resolves access tokens to live sessions and checks roles.
//
// A token alone is not enough: the session snapshot must still be cached, so
// logout takes effect immediately for tokens that have not expired yet.
type Gate struct {
	codec    *sec.TokenCodec
	sessions *SessionStore
}

// NewGate constructs a [Gate].
func NewGate(codec *sec.TokenCodec, sessions *SessionStore) *Gate {
	return &Gate{codec: codec, sessions: sessions}
}

/*
Authenticate returns the cached user behind an access token.

Parameters:
  - ctx: context.Context
  - accessToken: string

Returns:
  - *User: Session snapshot
  - error: Unauthenticated (no token), InvalidToken, SessionExpired or UpstreamFailure
*/
func (gate *Gate) Authenticate(ctx context.Context, accessToken string) (*User, error) {
	if accessToken == "" {
		return nil, apperr.Unauthenticated(msgLoginRequired)
	}

	var subject tokenSubject
	if err := gate.codec.Verify(sec.TokenAccess, accessToken, &subject); err != nil {
		return nil, apperr.InvalidToken(msgInvalidAccessToken, err)
	}

	user, err := gate.sessions.Load(ctx, subject.ID)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, apperr.SessionExpired()
		}
		return nil, apperr.Remap(err, "auth_gate_load_session")
	}

	return user, nil
}

// ResolveSession adapts [Gate.Authenticate] to the middleware's resolver contract.
func (gate *Gate) ResolveSession(ctx context.Context, accessToken string) (sec.Identity, error) {
	user, err := gate.Authenticate(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authorize passes iff the identity's role is one of allowed.
func (gate *Gate) Authorize(identity sec.Identity, allowed ...sec.UserRole) error {
	return sec.Authorize(identity, allowed...)
}
