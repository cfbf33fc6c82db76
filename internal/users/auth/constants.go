// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Session Constraints

const (
	// DefaultSessionTTL is the expiry of a cached session snapshot when none is
	// configured. It outlives the refresh token so that a refresh issued near
	// the end of the token's life still finds its session.
	DefaultSessionTTL = 7 * 24 * time.Hour

	// ActivationMailAttempts is the number of delivery attempts for the activation email.
	ActivationMailAttempts = 3
)

// # Field Limits

const (
	// MinPasswordLength is the shortest accepted password, in characters.
	MinPasswordLength = 3

	// MaxPasswordBytes is the bcrypt input limit; longer passwords are rejected
	// rather than silently truncated.
	MaxPasswordBytes = 72

	// MaxNameLength bounds a display name, in characters.
	MaxNameLength = 100
)

// # Client Messages

const (
	msgInvalidCredentials = "Invalid email or password"
	msgInvalidAccessToken = "Access token is not valid"
	msgInvalidRefresh     = "Could not refresh token"
	msgInvalidActivation  = "Activation token is invalid or expired"
	msgLoginRequired      = "Please login to access this resource"
	msgMailFailed         = "Failed to send activation email"
)
