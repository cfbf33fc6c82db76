// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/accounts/internal/platform/apperr"
	"github.com/taibuivan/accounts/internal/platform/validate"
	"github.com/taibuivan/accounts/pkg/uuid"
)

// failedFields runs the chain result through apperr and returns the failing field names.
func failedFields(t *testing.T, err error) []string {
	t.Helper()
	if err == nil {
		return nil
	}
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeValidation, ae.Code)

	fields := make([]string, 0, len(ae.Details))
	for _, detail := range ae.Details {
		fields = append(fields, detail.Field)
	}
	return fields
}

/*
TestValidator_Rules verifies each rule in isolation.
*/
func TestValidator_Rules(t *testing.T) {
	tests := []struct {
		name  string
		run   func(v *validate.Validator) *validate.Validator
		fails bool
	}{
		{"required_ok", func(v *validate.Validator) *validate.Validator { return v.Required("name", "Ann") }, false},
		{"required_blank", func(v *validate.Validator) *validate.Validator { return v.Required("name", "   ") }, true},
		{"min_ok", func(v *validate.Validator) *validate.Validator { return v.MinLen("password", "pw1", 3) }, false},
		{"min_short", func(v *validate.Validator) *validate.Validator { return v.MinLen("password", "pw", 3) }, true},
		{"min_skips_empty", func(v *validate.Validator) *validate.Validator { return v.MinLen("password", "", 3) }, false},
		{"max_runes", func(v *validate.Validator) *validate.Validator { return v.MaxLen("name", "\u0110\u1eb7ng", 4) }, false},
		{"max_exceeded", func(v *validate.Validator) *validate.Validator { return v.MaxLen("name", "Annie", 4) }, true},
		{"max_bytes", func(v *validate.Validator) *validate.Validator { return v.MaxBytes("password", strings.Repeat("é", 37), 72) }, true},
		{"email_ok", func(v *validate.Validator) *validate.Validator { return v.Email("email", "a@x.com") }, false},
		{"email_display_name", func(v *validate.Validator) *validate.Validator { return v.Email("email", "Ann <a@x.com>") }, true},
		{"email_missing_domain", func(v *validate.Validator) *validate.Validator { return v.Email("email", "a@") }, true},
		{"uuid_ok", func(v *validate.Validator) *validate.Validator { return v.UUID("userId", uuid.New()) }, false},
		{"uuid_bad", func(v *validate.Validator) *validate.Validator { return v.UUID("userId", "u1") }, true},
		{"one_of_ok", func(v *validate.Validator) *validate.Validator { return v.OneOf("role", "admin", "user", "admin") }, false},
		{"one_of_bad", func(v *validate.Validator) *validate.Validator { return v.OneOf("role", "root", "user", "admin") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(&validate.Validator{}).Err()
			if tt.fails {
				assert.Len(t, failedFields(t, err), 1)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestValidator_Chain verifies that failures accumulate across the chain.
*/
func TestValidator_Chain(t *testing.T) {
	err := (&validate.Validator{}).
		Required("name", "").
		MinLen("password", "a", 3).
		Email("email", "not-an-email").
		Err()

	assert.Equal(t, []string{"name", "password", "email"}, failedFields(t, err))
}

/*
TestRequiredError verifies the single-field shortcut.
*/
func TestRequiredError(t *testing.T) {
	err := validate.RequiredError("avatar", "Must not be empty")
	require.Len(t, err.Details, 1)
	assert.Equal(t, "avatar", err.Details[0].Field)
	assert.Equal(t, "Must not be empty", err.Details[0].Message)
}
