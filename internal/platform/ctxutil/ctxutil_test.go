// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/labramp/backbone/internal/platform/ctxutil"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_StartTime verifies the request arrival timestamp round-trips.
*/
func TestContext_StartTime(t *testing.T) {
	ctx := context.Background()

	// 1. Initially should be the zero time
	assert.True(t, ctxutil.GetStartTime(ctx).IsZero())

	// 2. Inject and retrieve
	start := time.Now()
	ctx = ctxutil.WithStartTime(ctx, start)
	assert.Equal(t, start, ctxutil.GetStartTime(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_SessionUser verifies that session identity can be stored in context.
*/
func TestContext_SessionUser(t *testing.T) {
	ctx := context.Background()

	// 1. Initially should be empty (anonymous)
	assert.Empty(t, ctxutil.GetSessionUser(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithSessionUser(ctx, "user-123")
	assert.Equal(t, "user-123", ctxutil.GetSessionUser(ctx))
}
