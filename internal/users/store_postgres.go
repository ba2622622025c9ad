// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements the user Store over the users table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL implementation of the user Store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const userColumns = "id, active, email, password, first_name, last_name, last_login, created_at, updated_at"

func (store *PostgresStore) scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Active,
		&user.Email,
		&user.Password,
		&user.FirstName,
		&user.LastName,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// FindByEmail loads an account by its unique email, or (nil, nil).
func (store *PostgresStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", userColumns)

	user, err := store.scanUser(store.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("postgres_user_store_find_by_email_failed: %w", err)
	}
	return user, nil
}

// FindByID loads an account by its primary key, or (nil, nil).
func (store *PostgresStore) FindByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)

	user, err := store.scanUser(store.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("postgres_user_store_find_by_id_failed: %w", err)
	}
	return user, nil
}

// Insert persists a new account row.
func (store *PostgresStore) Insert(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users (
			id, active, email, password, first_name, last_name, last_login, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := store.pool.Exec(ctx, query,
		user.ID,
		user.Active,
		user.Email,
		user.Password,
		user.FirstName,
		user.LastName,
		user.LastLogin,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_store_insert_failed: %w", err)
	}
	return nil
}

// UpdatePassword replaces only the stored credential representation.
func (store *PostgresStore) UpdatePassword(ctx context.Context, id, encodedHash string, updatedAt time.Time) error {
	const query = `
		UPDATE users
		SET password = $2, updated_at = $3
		WHERE id = $1`

	_, err := store.pool.Exec(ctx, query, id, encodedHash, updatedAt)
	if err != nil {
		return fmt.Errorf("postgres_user_store_update_password_failed: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps a successful authentication.
func (store *PostgresStore) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `
		UPDATE users
		SET last_login = $2, updated_at = $2
		WHERE id = $1`

	_, err := store.pool.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("postgres_user_store_update_last_login_failed: %w", err)
	}
	return nil
}
