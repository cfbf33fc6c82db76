// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/accounts/internal/platform/ctxkey"
	"github.com/taibuivan/accounts/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithIdentity returns a new context carrying the resolved caller.
func WithIdentity(ctx context.Context, identity sec.Identity) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, identity)
}

// GetIdentity retrieves the resolved caller, or nil for anonymous requests.
func GetIdentity(ctx context.Context) sec.Identity {
	identity, ok := ctx.Value(ctxkey.KeyUser).(sec.Identity)
	if !ok {
		return nil
	}
	return identity
}

// # Per-Request Annotations

// Annotations is a mutable bag shared between the outermost logging
// middleware and inner handlers, so that values resolved deep in the chain
// (e.g. the caller's id) reach the final access log line.
type Annotations struct {
	UserID string
}

// WithAnnotations returns a new context carrying an empty [Annotations] bag.
func WithAnnotations(ctx context.Context) (context.Context, *Annotations) {
	bag := &Annotations{}
	return context.WithValue(ctx, ctxkey.KeyAnnotations, bag), bag
}

// GetAnnotations returns the bag installed by [WithAnnotations], or nil.
func GetAnnotations(ctx context.Context) *Annotations {
	bag, _ := ctx.Value(ctxkey.KeyAnnotations).(*Annotations)
	return bag
}
