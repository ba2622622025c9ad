// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// # PostgreSQL Store

// PostgresStore implements [Store] on a pgx connection pool.
//
// All SQL is built dynamically from the schema with squirrel; the column
// lists are exactly the schema's field names, so a resource declaration is
// the only place a table's shape is spelled out.
type PostgresStore struct {
	pool    *pgxpool.Pool
	schema  *Schema
	builder sq.StatementBuilderType
}

// NewPostgresStore creates a schema-driven store on the shared pool.
func NewPostgresStore(pool *pgxpool.Pool, schema *Schema) *PostgresStore {
	return &PostgresStore{
		pool:    pool,
		schema:  schema,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// List returns every record, ordered by primary key ascending.
func (store *PostgresStore) List(ctx context.Context) ([]Record, error) {
	query, args, err := store.builder.
		Select(store.schema.Columns()...).
		From(store.schema.Table).
		OrderBy(store.schema.PrimaryKey + " ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("resource store: list build failed: %w", err)
	}

	rows, err := store.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("resource store: list query failed: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		record, err := store.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resource store: list scan failed: %w", err)
	}

	return records, nil
}

// Get returns the keyed record, or nil if absent.
func (store *PostgresStore) Get(ctx context.Context, key string) (Record, error) {
	query, args, err := store.builder.
		Select(store.schema.Columns()...).
		From(store.schema.Table).
		Where(sq.Eq{store.schema.PrimaryKey: key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("resource store: get build failed: %w", err)
	}

	return store.queryOne(ctx, query, args)
}

// Insert persists a complete record and returns the stored row.
func (store *PostgresStore) Insert(ctx context.Context, record Record) (Record, error) {
	columns := store.schema.Columns()
	values := make([]any, len(columns))
	for i, column := range columns {
		values[i] = record[column]
	}

	query, args, err := store.builder.
		Insert(store.schema.Table).
		Columns(columns...).
		Values(values...).
		Suffix(store.returningClause()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("resource store: insert build failed: %w", err)
	}

	stored, err := store.queryOne(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("resource store: insert returned no row")
	}
	return stored, nil
}

// Update overwrites every non-generated field and returns the new row, or nil
// if the key is absent.
func (store *PostgresStore) Update(ctx context.Context, key string, record Record) (Record, error) {
	assignments := make(map[string]any, len(record))
	for _, field := range store.schema.Fields {
		if field.Name == store.schema.PrimaryKey {
			continue
		}
		if value, present := record[field.Name]; present {
			assignments[field.Name] = value
		}
	}

	query, args, err := store.builder.
		Update(store.schema.Table).
		SetMap(assignments).
		Where(sq.Eq{store.schema.PrimaryKey: key}).
		Suffix(store.returningClause()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("resource store: update build failed: %w", err)
	}

	return store.queryOne(ctx, query, args)
}

// Delete removes the keyed record and returns its prior state, or nil if the
// key is absent.
func (store *PostgresStore) Delete(ctx context.Context, key string) (Record, error) {
	query, args, err := store.builder.
		Delete(store.schema.Table).
		Where(sq.Eq{store.schema.PrimaryKey: key}).
		Suffix(store.returningClause()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("resource store: delete build failed: %w", err)
	}

	return store.queryOne(ctx, query, args)
}

// # Row Plumbing

// queryOne runs a single-row query, mapping "no rows" to a nil record.
func (store *PostgresStore) queryOne(ctx context.Context, query string, args []any) (Record, error) {
	rows, err := store.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("resource store: query failed: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("resource store: row fetch failed: %w", err)
		}
		return nil, nil
	}

	return store.scanRecord(rows)
}

// scanRecord zips the current row's values with the schema's column order.
func (store *PostgresStore) scanRecord(rows pgx.Rows) (Record, error) {
	values, err := rows.Values()
	if err != nil {
		return nil, fmt.Errorf("resource store: value scan failed: %w", err)
	}

	columns := store.schema.Columns()
	record := make(Record, len(columns))
	for i, column := range columns {
		record[column] = values[i]
	}
	return record, nil
}

func (store *PostgresStore) returningClause() string {
	return "RETURNING " + strings.Join(store.schema.Columns(), ", ")
}
