// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package sessions

import (
	"context"
	"errors"
	"time"
)

// ErrTokenExists is returned by [Store.Insert] when the token collides with
// an existing session. The service reacts by generating a fresh token.
var ErrTokenExists = errors.New("sessions: token already exists")

// Store is the persistence capability behind the session service.
//
// Get returns (nil, nil) when no session exists for the token. A non-nil
// error always signals an infrastructure failure, never absence.
type Store interface {
	// Get loads the session behind a token, or (nil, nil) if absent.
	Get(ctx context.Context, token string) (*Session, error)

	// Insert persists a new session. Returns [ErrTokenExists] on collision.
	Insert(ctx context.Context, session *Session) error

	// UpdateExpiry moves the sliding deadline of an existing session.
	UpdateExpiry(ctx context.Context, token string, expiry, updatedAt time.Time) error

	// Delete removes a session. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes every session whose ceiling has passed.
	DeleteExpired(ctx context.Context, now time.Time) error
}
