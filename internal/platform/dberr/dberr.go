// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/accounts/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")

	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("dberr: duplicate key")
)

// Wrap inspects a database error and classifies it.
//
// pgx.ErrNoRows becomes [ErrNotFound], a unique violation (SQLSTATE 23505)
// becomes [ErrDuplicate], anything else is returned wrapped with the action
// so that the service layer can remap it to an upstream failure.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unique constraint mapping
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%s: %w", action, ErrDuplicate)
	}

	// 3. Everything else stays an infrastructure error
	return fmt.Errorf("%s: %w", action, err)
}

// IsNotFound reports whether err is (or wraps) a not-found classification.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate reports whether err is (or wraps) a unique violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
