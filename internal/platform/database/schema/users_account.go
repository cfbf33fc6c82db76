// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns shared by SQL repositories and
// migrations, so that a column rename is a one-line change.
package schema

import "strings"

// UsersTable represents the 'users' table
type UsersTable struct {
	Table          string
	ID             string
	Name           string
	Email          string
	Password       string
	Role           string
	AvatarPublicID string
	AvatarURL      string
	IsSocial       string
	CreatedAt      string
	UpdatedAt      string
}

// Users is the schema definition for the users table
var Users = UsersTable{
	Table:          "users",
	ID:             "id",
	Name:           "name",
	Email:          "email",
	Password:       "password_hash",
	Role:           "role",
	AvatarPublicID: "avatar_public_id",
	AvatarURL:      "avatar_url",
	IsSocial:       "is_social",
	CreatedAt:      "created_at",
	UpdatedAt:      "updated_at",
}

// Columns returns all standard column names in scan order
func (t UsersTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Email, t.Password, t.Role, t.AvatarPublicID,
		t.AvatarURL, t.IsSocial, t.CreatedAt, t.UpdatedAt,
	}
}

// SelectList returns [UsersTable.Columns] joined for a SELECT clause
func (t UsersTable) SelectList() string {
	return strings.Join(t.Columns(), ", ")
}
