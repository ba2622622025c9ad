// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package resource

import "context"

// # Persistence Contract

// Store is the persistence capability a mounted resource runs against.
//
// Implementations return a nil [Record] (with a nil error) when the requested
// key does not exist; the synthesized handlers translate that into 404.
// Storage faults are returned as opaque errors and surface to clients as
// GENERAL failures; this layer never retries them.
//
// Single-key operations rely on the storage engine's own atomicity; no
// in-process locking is performed here.
type Store interface {

	// List returns every record, ordered by primary key ascending.
	List(ctx context.Context) ([]Record, error)

	// Get returns the record with the given primary key, or nil if absent.
	Get(ctx context.Context, key string) (Record, error)

	// Insert persists a complete record and returns the stored state.
	Insert(ctx context.Context, record Record) (Record, error)

	// Update overwrites every non-generated field of the keyed record and
	// returns the new state, or nil if the key is absent.
	Update(ctx context.Context, key string, record Record) (Record, error)

	// Delete removes the keyed record and returns its prior state, or nil
	// if the key is absent.
	Delete(ctx context.Context, key string) (Record, error)
}
