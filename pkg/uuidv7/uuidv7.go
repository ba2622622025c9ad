// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

// Package uuidv7 wraps google/uuid to generate time-ordered UUIDv7 values.
//
// # Why UUIDv7?
//
// It is the primary key type for every synthesized resource and for user
// accounts. Because it is time-sortable, ascending-by-key listings follow
// creation order and PostgreSQL B-tree indexes stay compact, avoiding the
// fragmentation common with random UUIDv4.
package uuidv7

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// # Safety
//
// It panics only if the OS random source is unavailable (extremely rare).
// This is acceptable as OS entropy failure is an unrecoverable system-level error.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuidv7: failed to generate UUID: " + err.Error())
	}

	return id.String()
}

// IsValid reports whether the value parses as any UUID version. Input
// validation accepts every version; only generation is pinned to v7.
func IsValid(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}
