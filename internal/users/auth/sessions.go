// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/taibuivan/accounts/internal/platform/constants"
)

// ErrNoSession is returned by [SessionStore.Load] when no snapshot is cached.
var ErrNoSession = errors.New("auth: no session")

// SessionStore reads and writes typed session snapshots over a [SessionCache].
//
// One entry exists per user id; writes are last-write-wins.
type SessionStore struct {
	cache SessionCache
	ttl   time.Duration
}

// NewSessionStore wraps cache. A non-positive ttl selects [DefaultSessionTTL].
func NewSessionStore(cache SessionCache, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{cache: cache, ttl: ttl}
}

// SessionKey returns the cache key of userID's session.
func SessionKey(userID string) string {
	return constants.RedisPrefixSession + userID
}

// Load returns the cached snapshot of userID, or [ErrNoSession].
func (store *SessionStore) Load(ctx context.Context, userID string) (*User, error) {
	raw, err := store.cache.Get(ctx, SessionKey(userID))
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("auth: corrupt session snapshot for %s: %w", userID, err)
	}

	return &user, nil
}

// Save overwrites the snapshot of user and restarts its expiry.
func (store *SessionStore) Save(ctx context.Context, user *User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("auth: failed to encode session snapshot: %w", err)
	}
	return store.cache.Set(ctx, SessionKey(user.ID), raw, store.ttl)
}

// Evict drops the snapshot of userID.
func (store *SessionStore) Evict(ctx context.Context, userID string) error {
	return store.cache.Delete(ctx, SessionKey(userID))
}

// Exists reports whether userID currently has a cached session.
func (store *SessionStore) Exists(ctx context.Context, userID string) (bool, error) {
	_, err := store.cache.Get(ctx, SessionKey(userID))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrCacheMiss):
		return false, nil
	default:
		return false, err
	}
}
