// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the PostgreSQL error code for a unique constraint hit.
const pgUniqueViolation = "23505"

// PostgresStore is the durable session store backed by the sessions table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL implementation of the session Store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Get loads a session by its token, or (nil, nil) if absent.
func (store *PostgresStore) Get(ctx context.Context, token string) (*Session, error) {
	const query = `
		SELECT token, user_id, expiry_date, max_expiry_date, created_at, updated_at
		FROM sessions
		WHERE token = $1`

	session := &Session{}
	err := store.pool.QueryRow(ctx, query, token).Scan(
		&session.Token,
		&session.UserID,
		&session.ExpiryDate,
		&session.MaxExpiryDate,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres_session_store_get_failed: %w", err)
	}

	return session, nil
}

// Insert persists a new session. A primary-key collision on the token column
// is translated to [ErrTokenExists] so the service can retry.
func (store *PostgresStore) Insert(ctx context.Context, session *Session) error {
	const query = `
		INSERT INTO sessions (
			token, user_id, expiry_date, max_expiry_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := store.pool.Exec(ctx, query,
		session.Token,
		session.UserID,
		session.ExpiryDate,
		session.MaxExpiryDate,
		session.CreatedAt,
		session.UpdatedAt,
	)

	if err != nil {
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == pgUniqueViolation {
			return ErrTokenExists
		}
		return fmt.Errorf("postgres_session_store_insert_failed: %w", err)
	}

	return nil
}

// UpdateExpiry moves the sliding deadline of an existing session.
func (store *PostgresStore) UpdateExpiry(ctx context.Context, token string, expiry, updatedAt time.Time) error {
	const query = `
		UPDATE sessions
		SET expiry_date = $2, updated_at = $3
		WHERE token = $1`

	_, err := store.pool.Exec(ctx, query, token, expiry, updatedAt)
	if err != nil {
		return fmt.Errorf("postgres_session_store_update_expiry_failed: %w", err)
	}
	return nil
}

// Delete removes a session. Deleting an absent token succeeds.
func (store *PostgresStore) Delete(ctx context.Context, token string) error {
	const query = "DELETE FROM sessions WHERE token = $1"

	_, err := store.pool.Exec(ctx, query, token)
	if err != nil {
		return fmt.Errorf("postgres_session_store_delete_failed: %w", err)
	}
	return nil
}

// DeleteExpired permanently removes sessions past their hard ceiling.
func (store *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) error {
	const query = "DELETE FROM sessions WHERE max_expiry_date <= $1"

	_, err := store.pool.Exec(ctx, query, now)
	if err != nil {
		return fmt.Errorf("postgres_session_store_delete_expired_failed: %w", err)
	}
	return nil
}
