// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"
	"time"

	"github.com/labramp/backbone/internal/platform/ctxkey"
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

// WithStartTime returns a new context carrying the request arrival timestamp.
func WithStartTime(ctx context.Context, start time.Time) context.Context {
	return context.WithValue(ctx, ctxkey.KeyStartTime, start)
}

// GetStartTime retrieves the request arrival timestamp from the context.
// Returns the zero time if not found.
func GetStartTime(ctx context.Context) time.Time {
	start, _ := ctx.Value(ctxkey.KeyStartTime).(time.Time)
	return start
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

// # Session Identity

// WithSessionUser returns a new context with the validated session user attached.
func WithSessionUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxkey.KeySessionUser, userID)
}

// GetSessionUser retrieves the session user ID from the context.
// Returns an empty string for anonymous requests.
func GetSessionUser(ctx context.Context) string {
	userID, _ := ctx.Value(ctxkey.KeySessionUser).(string)
	return userID
}
