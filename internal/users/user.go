// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

/*
Package users implements account management and credential verification.

# Architecture

The package follows the layered split used across Backbone: a [Store]
interface over PostgreSQL, a [Service] holding the business rules, and a thin
HTTP handler for the login/logout endpoints. Account CRUD itself rides the
generic resource machinery; this package contributes the schema and the
password-interception hook so plaintext credentials never reach storage.

# Review Process

The login path is deliberately shaped so that a request for an unknown email
costs the same hashing work as a wrong password for a known email. Changes to
that path need a security review.
*/
package users

import "time"

// User is one account row.
//
// Password holds the encoded PBKDF2 representation, never plaintext. It is
// excluded from JSON so the hash cannot leak through any serialization path.
type User struct {
	ID        string     `json:"id"`
	Active    bool       `json:"active"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
