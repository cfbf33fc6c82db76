// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles profile management for signed-in users and account
administration.

It lets users view their cached identity, change their name, email, password
and avatar, and lets administrators list accounts, change roles and delete
accounts.

# Architecture

  - Domain: This package depends on the auth package for the User entity,
    its repository and the session store.
  - Storage: Avatars live in object storage behind [AvatarStore].
  - Consistency: Every mutation re-writes the cached session snapshot so that
    the gate observes the new profile on the next request.
*/
package account

import "context"

// # Storage Contracts

// AvatarStore persists profile pictures as public objects.
type AvatarStore interface {
	/*
		Put uploads data under key.

		Parameters:
		  - ctx: context.Context
		  - key: string (Object key, also used as the avatar public id)
		  - contentType: string
		  - data: []byte

		Returns:
		  - string: Public URL of the object
		  - error: Storage failures
	*/
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)

	// Remove deletes key. A missing object is not an error.
	Remove(ctx context.Context, key string) error
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldOldPassword = "oldPassword"
	FieldNewPassword = "newPassword"
	FieldAvatar      = "avatar"
	FieldRole        = "role"
	FieldUserID      = "userId"
)

// # Avatar Constraints

const (
	// MaxAvatarBytes is the upper bound of a decoded avatar image.
	MaxAvatarBytes = 2 << 20

	// avatarPrefix is the object key namespace of profile pictures.
	avatarPrefix = "avatars"
)
