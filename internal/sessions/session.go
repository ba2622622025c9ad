// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

/*
Package sessions implements opaque-token session management.

# Architecture

A session is identified by a random URL-safe token handed to the client at
login. The token is the primary key; no signed claims are involved, so a
session can be revoked server-side at any moment by deleting its record.

Every session carries two deadlines:

  - ExpiryDate: the sliding deadline. Validated requests push it forward.
  - MaxExpiryDate: the hard ceiling fixed at creation. No amount of activity
    extends a session past it.

The [Service] owns the policy (token generation, collision retry, sliding
extension); the [Store] implementations own persistence. PostgreSQL is the
durable backend, Redis the volatile one for deployments that prefer
TTL-driven cleanup.
*/
package sessions

import "time"

// Session is one authenticated client session.
type Session struct {
	// Token is the opaque URL-safe identifier and primary key.
	Token string `json:"token"`

	// UserID is the account this session authenticates.
	UserID string `json:"user_id"`

	// ExpiryDate is the sliding deadline after which the token is rejected.
	ExpiryDate time.Time `json:"expiry_date"`

	// MaxExpiryDate is the absolute ceiling. ExpiryDate never passes it.
	MaxExpiryDate time.Time `json:"max_expiry_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the session is still valid at the given instant.
func (session *Session) Active(now time.Time) bool {
	return now.Before(session.ExpiryDate) && now.Before(session.MaxExpiryDate)
}
