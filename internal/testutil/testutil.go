// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package testutil holds fakes and fixtures shared by package tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/accounts/internal/platform/dberr"
	"github.com/taibuivan/accounts/internal/platform/sec"
	"github.com/taibuivan/accounts/internal/users/auth"
)

// NoopLogger returns a logger that discards everything.
func NoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

// # Clock

// Clock is a manually advanced time source.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock starts at the current wall time.
func NewClock() *Clock {
	return &Clock{current: time.Now()}
}

// Now returns the current fake time.
func (clock *Clock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.current
}

// Advance moves the clock forward.
func (clock *Clock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.current = clock.current.Add(d)
}

// NewCodec builds a token codec with the production lifetimes and a fake clock.
func NewCodec(t *testing.T, clock *Clock) *sec.TokenCodec {
	t.Helper()
	codec, err := sec.NewTokenCodec(map[sec.TokenKind]sec.TokenSpec{
		sec.TokenActivation: {Secret: []byte("test-activation-secret"), TTL: 5 * time.Minute},
		sec.TokenAccess:     {Secret: []byte("test-access-secret"), TTL: 5 * time.Minute},
		sec.TokenRefresh:    {Secret: []byte("test-refresh-secret"), TTL: 72 * time.Hour},
	}, sec.WithClock(clock.Now), sec.WithLeeway(2*time.Second))
	require.NoError(t, err)
	return codec
}

// NewSessions starts a miniredis server and returns a session store over it.
func NewSessions(t *testing.T) (*auth.SessionStore, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return auth.NewSessionStore(auth.NewSessionCache(client), auth.DefaultSessionTTL), server
}

// # Users

// MemoryUsers is an in-memory auth.UserRepository.
type MemoryUsers struct {
	mu    sync.Mutex
	byID  map[string]auth.User
	order []string

	// CreateErr, when set, is returned by the next Create call.
	CreateErr error
	// FailWith, when set, is returned by every call.
	FailWith error
}

// NewMemoryUsers returns an empty repository.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{byID: make(map[string]auth.User)}
}

var _ auth.UserRepository = (*MemoryUsers)(nil)

func (repo *MemoryUsers) findEmail(email string) (auth.User, bool) {
	for _, user := range repo.byID {
		if strings.EqualFold(user.Email, email) {
			return user, true
		}
	}
	return auth.User{}, false
}

// FindByID implements auth.UserRepository.
func (repo *MemoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.FailWith != nil {
		return nil, repo.FailWith
	}
	user, ok := repo.byID[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return &user, nil
}

// FindByEmail implements auth.UserRepository.
func (repo *MemoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.FailWith != nil {
		return nil, repo.FailWith
	}
	user, ok := repo.findEmail(email)
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return &user, nil
}

// EmailExists implements auth.UserRepository.
func (repo *MemoryUsers) EmailExists(_ context.Context, email string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.FailWith != nil {
		return false, repo.FailWith
	}
	_, ok := repo.findEmail(email)
	return ok, nil
}

// Create implements auth.UserRepository.
func (repo *MemoryUsers) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.FailWith != nil {
		return repo.FailWith
	}
	if err := repo.CreateErr; err != nil {
		repo.CreateErr = nil
		return err
	}
	if _, taken := repo.findEmail(user.Email); taken {
		return dberr.Wrap(dberr.ErrDuplicate, "memory_create")
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	repo.byID[user.ID] = *user
	repo.order = append(repo.order, user.ID)
	return nil
}

// Save implements auth.UserRepository.
func (repo *MemoryUsers) Save(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.FailWith != nil {
		return repo.FailWith
	}
	if _, ok := repo.byID[user.ID]; !ok {
		return dberr.ErrNotFound
	}
	if other, taken := repo.findEmail(user.Email); taken && other.ID != user.ID {
		return dberr.Wrap(dberr.ErrDuplicate, "memory_save")
	}
	user.UpdatedAt = time.Now().UTC()
	repo.byID[user.ID] = *user
	return nil
}

// List implements auth.UserRepository, newest first.
func (repo *MemoryUsers) List(_ context.Context, limit, offset int) ([]*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.FailWith != nil {
		return nil, repo.FailWith
	}
	ids := slices.Clone(repo.order)
	slices.Reverse(ids)

	result := make([]*auth.User, 0, limit)
	for i := offset; i < len(ids) && len(result) < limit; i++ {
		user := repo.byID[ids[i]]
		result = append(result, &user)
	}
	return result, nil
}

// Count implements auth.UserRepository.
func (repo *MemoryUsers) Count(_ context.Context) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.FailWith != nil {
		return 0, repo.FailWith
	}
	return len(repo.byID), nil
}

// Delete implements auth.UserRepository.
func (repo *MemoryUsers) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.FailWith != nil {
		return repo.FailWith
	}
	if _, ok := repo.byID[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(repo.byID, id)
	repo.order = slices.DeleteFunc(repo.order, func(other string) bool { return other == id })
	return nil
}

// Put seeds a user directly.
func (repo *MemoryUsers) Put(user auth.User) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.byID[user.ID] = user
	repo.order = append(repo.order, user.ID)
}

// Len returns the number of stored users.
func (repo *MemoryUsers) Len() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.byID)
}
