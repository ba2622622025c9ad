// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package resource

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// # In-Memory Store

// MemoryStore is a mutex-guarded [Store] used in tests and local development.
// Records are deep-copied on the way in and out so callers can never alias
// internal state.
type MemoryStore struct {
	mu         sync.RWMutex
	primaryKey string
	records    map[string]Record
}

// NewMemoryStore creates an empty in-memory store for the given schema.
func NewMemoryStore(schema *Schema) *MemoryStore {
	return &MemoryStore{
		primaryKey: schema.PrimaryKey,
		records:    make(map[string]Record),
	}
}

// List returns every record, ordered by primary key ascending.
func (store *MemoryStore) List(ctx context.Context) ([]Record, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	keys := make([]string, 0, len(store.records))
	for key := range store.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	records := make([]Record, 0, len(keys))
	for _, key := range keys {
		records = append(records, copyRecord(store.records[key]))
	}
	return records, nil
}

// Get returns the keyed record, or nil if absent.
func (store *MemoryStore) Get(ctx context.Context, key string) (Record, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	record, found := store.records[key]
	if !found {
		return nil, nil
	}
	return copyRecord(record), nil
}

// Insert persists a complete record keyed by its primary-key field.
func (store *MemoryStore) Insert(ctx context.Context, record Record) (Record, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	key := fmt.Sprint(record[store.primaryKey])
	if _, exists := store.records[key]; exists {
		return nil, fmt.Errorf("memory store: duplicate primary key %q", key)
	}

	store.records[key] = copyRecord(record)
	return copyRecord(record), nil
}

// Update overwrites the keyed record's fields, preserving the primary key.
func (store *MemoryStore) Update(ctx context.Context, key string, record Record) (Record, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	existing, found := store.records[key]
	if !found {
		return nil, nil
	}

	updated := copyRecord(record)
	updated[store.primaryKey] = existing[store.primaryKey]
	store.records[key] = updated

	return copyRecord(updated), nil
}

// Delete removes the keyed record and returns its prior state.
func (store *MemoryStore) Delete(ctx context.Context, key string) (Record, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	record, found := store.records[key]
	if !found {
		return nil, nil
	}

	delete(store.records, key)
	return copyRecord(record), nil
}

func copyRecord(record Record) Record {
	duplicate := make(Record, len(record))
	for name, value := range record {
		duplicate[name] = value
	}
	return duplicate
}
