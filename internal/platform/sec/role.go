// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"slices"

	"github.com/taibuivan/accounts/internal/platform/apperr"
)

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted administrative access
	RoleAdmin UserRole = "admin"

	// Default role for every registered or social account
	RoleUser UserRole = "user"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// # Identity

// Identity is the resolved caller attached to an authenticated request.
type Identity interface {
	IdentityID() string
	IdentityRole() UserRole
}

// # Role Gate

// Authorize passes iff the identity's role is a member of allowed.
//
// The check is a flat membership test; there is no role hierarchy.
func Authorize(identity Identity, allowed ...UserRole) error {
	if identity == nil {
		return apperr.Unauthenticated("Please login to access this resource")
	}

	role := identity.IdentityRole()
	if slices.Contains(allowed, role) {
		return nil
	}

	return apperr.Forbidden(fmt.Sprintf("Role %s is not allowed to access this resource", role))
}
