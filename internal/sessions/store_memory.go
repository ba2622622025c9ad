// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package sessions

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process session store. It backs tests and single-node
// development runs; production deployments use PostgreSQL or Redis.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

// Get loads a session by token, or (nil, nil) if absent.
func (store *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	session, ok := store.sessions[token]
	if !ok {
		return nil, nil
	}
	copied := session
	return &copied, nil
}

// Insert persists a new session, rejecting token collisions.
func (store *MemoryStore) Insert(_ context.Context, session *Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, exists := store.sessions[session.Token]; exists {
		return ErrTokenExists
	}
	store.sessions[session.Token] = *session
	return nil
}

// UpdateExpiry moves the sliding deadline of an existing session.
func (store *MemoryStore) UpdateExpiry(_ context.Context, token string, expiry, updatedAt time.Time) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	session, ok := store.sessions[token]
	if !ok {
		return nil
	}
	session.ExpiryDate = expiry
	session.UpdatedAt = updatedAt
	store.sessions[token] = session
	return nil
}

// Delete removes a session. Absent tokens are ignored.
func (store *MemoryStore) Delete(_ context.Context, token string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.sessions, token)
	return nil
}

// DeleteExpired removes every session whose ceiling has passed.
func (store *MemoryStore) DeleteExpired(_ context.Context, now time.Time) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for token, session := range store.sessions {
		if !now.Before(session.MaxExpiryDate) {
			delete(store.sessions, token)
		}
	}
	return nil
}
