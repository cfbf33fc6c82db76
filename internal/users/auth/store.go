// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by [SessionCache.Get] when the key is absent or expired.
var ErrCacheMiss = errors.New("auth: cache miss")

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Lookups return dberr.ErrNotFound when no row matches; Create and Save return
// an error wrapping dberr.ErrDuplicate when the email is already taken.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - ctx: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or database failures
	*/
	FindByID(ctx context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email (case-insensitive).

		Parameters:
		  - ctx: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or database failures
	*/
	FindByEmail(ctx context.Context, email string) (*User, error)

	/*
		EmailExists reports whether an account already uses email.

		Parameters:
		  - ctx: context.Context
		  - email: string

		Returns:
		  - bool: true when taken
		  - error: Database failures
	*/
	EmailExists(ctx context.Context, email string) (bool, error)

	/*
		Create persists a brand-new user account.

		Parameters:
		  - ctx: context.Context
		  - user: *User

		Returns:
		  - error: dberr.ErrDuplicate or persistence failures
	*/
	Create(ctx context.Context, user *User) error

	/*
		Save persists every mutable field of an existing account.

		Parameters:
		  - ctx: context.Context
		  - user: *User

		Returns:
		  - error: dberr.ErrNotFound, dberr.ErrDuplicate or persistence failures
	*/
	Save(ctx context.Context, user *User) error

	/*
		List returns one page of accounts, newest first.

		Parameters:
		  - ctx: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*User: Page of entities
		  - error: Database failures
	*/
	List(ctx context.Context, limit, offset int) ([]*User, error)

	// Count returns the total number of accounts.
	Count(ctx context.Context) (int, error)

	// Delete removes the account permanently.
	Delete(ctx context.Context, id string) error
}

// # Volatile Data Access

// SessionCache is the key/value store holding session snapshots.
type SessionCache interface {

	// Get returns the stored value, or [ErrCacheMiss].
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
