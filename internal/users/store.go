// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package users

import (
	"context"
	"time"
)

// Store is the persistence capability behind the user service.
//
// Lookups return (nil, nil) when no account matches. A non-nil error always
// signals an infrastructure failure, never absence.
type Store interface {
	// FindByEmail loads an account by its unique email, or (nil, nil).
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID loads an account by its primary key, or (nil, nil).
	FindByID(ctx context.Context, id string) (*User, error)

	// Insert persists a new account.
	Insert(ctx context.Context, user *User) error

	// UpdatePassword replaces only the stored credential representation.
	UpdatePassword(ctx context.Context, id, encodedHash string, updatedAt time.Time) error

	// UpdateLastLogin stamps a successful authentication.
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
