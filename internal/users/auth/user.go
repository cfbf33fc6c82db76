// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the core domain entity (User) and the logic for registration with
email activation, login, refresh-token rotation, logout and the request gate.

# Architecture

  - Service: Orchestrates the session lifecycle and the activation flow.
  - Gate: Resolves an access token to the cached session snapshot.
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Sessions).
  - Security: Bcrypt hashes and per-kind HS256 tokens from the sec package.
*/
package auth

import (
	"time"

	"github.com/taibuivan/accounts/internal/platform/sec"
)

// # Domain Entities

// Avatar references a profile picture held in object storage.
type Avatar struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// User represents a registered account.
//
// The JSON form is also the session snapshot kept in Redis, so PasswordHash
// is never serialized.
type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         sec.UserRole `json:"role"`
	Avatar       *Avatar      `json:"avatar,omitempty"`
	IsSocial     bool         `json:"is_social"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ComparePassword reports whether plain matches the stored hash.
// Accounts without a password never match.
func (user *User) ComparePassword(plain string) bool {
	return sec.CheckPasswordHash(plain, user.PasswordHash)
}

// HasPassword reports whether the account can log in with a password.
func (user *User) HasPassword() bool {
	return user.PasswordHash != ""
}

// IdentityID implements [sec.Identity].
func (user *User) IdentityID() string {
	if user == nil {
		return ""
	}
	return user.ID
}

// IdentityRole implements [sec.Identity].
func (user *User) IdentityRole() sec.UserRole {
	if user == nil {
		return ""
	}
	return user.Role
}

// # Field Identifiers

// Global field names for validation and JSON mapping in the authentication domain.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldAvatar          = "avatar"
	FieldActivationToken = "activation_token"
	FieldActivationCode  = "activation_code"
	FieldOldPassword     = "oldPassword"
	FieldNewPassword     = "newPassword"
	FieldRole            = "role"
	FieldUserID          = "userId"
)
