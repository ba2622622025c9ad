// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/labramp/backbone/internal/platform/constants"
)

// Hash field names for the Redis session representation.
const (
	fieldUserID        = "user_id"
	fieldExpiryDate    = "expiry_date"
	fieldMaxExpiryDate = "max_expiry_date"
	fieldCreatedAt     = "created_at"
	fieldUpdatedAt     = "updated_at"
)

// RedisStore keeps sessions in Redis hashes. Each key carries a TTL pinned to
// the session's hard ceiling, so past-ceiling cleanup is delegated to Redis
// itself and [RedisStore.DeleteExpired] has nothing left to do.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis implementation of the session Store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(token string) string {
	return constants.RedisPrefixSession + token
}

// Get loads a session by its token, or (nil, nil) if absent.
func (store *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	fields, err := store.client.HGetAll(ctx, sessionKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_session_store_get_failed: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	session := &Session{Token: token, UserID: fields[fieldUserID]}

	for name, target := range map[string]*time.Time{
		fieldExpiryDate:    &session.ExpiryDate,
		fieldMaxExpiryDate: &session.MaxExpiryDate,
		fieldCreatedAt:     &session.CreatedAt,
		fieldUpdatedAt:     &session.UpdatedAt,
	} {
		parsed, parseErr := time.Parse(time.RFC3339Nano, fields[name])
		if parseErr != nil {
			return nil, fmt.Errorf("redis_session_store_corrupt_field %s: %w", name, parseErr)
		}
		*target = parsed
	}

	return session, nil
}

// Insert persists a new session and pins the key TTL to the hard ceiling.
// An existing key is a token collision and yields [ErrTokenExists].
func (store *RedisStore) Insert(ctx context.Context, session *Session) error {
	key := sessionKey(session.Token)

	exists, err := store.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis_session_store_exists_failed: %w", err)
	}
	if exists > 0 {
		return ErrTokenExists
	}

	pipe := store.client.TxPipeline()
	pipe.HSet(ctx, key,
		fieldUserID, session.UserID,
		fieldExpiryDate, session.ExpiryDate.Format(time.RFC3339Nano),
		fieldMaxExpiryDate, session.MaxExpiryDate.Format(time.RFC3339Nano),
		fieldCreatedAt, session.CreatedAt.Format(time.RFC3339Nano),
		fieldUpdatedAt, session.UpdatedAt.Format(time.RFC3339Nano),
	)
	pipe.ExpireAt(ctx, key, session.MaxExpiryDate)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis_session_store_insert_failed: %w", err)
	}
	return nil
}

// UpdateExpiry moves the sliding deadline. The key TTL stays pinned to the
// ceiling; the sliding deadline is enforced by the service on read.
func (store *RedisStore) UpdateExpiry(ctx context.Context, token string, expiry, updatedAt time.Time) error {
	err := store.client.HSet(ctx, sessionKey(token),
		fieldExpiryDate, expiry.Format(time.RFC3339Nano),
		fieldUpdatedAt, updatedAt.Format(time.RFC3339Nano),
	).Err()

	if err != nil {
		return fmt.Errorf("redis_session_store_update_expiry_failed: %w", err)
	}
	return nil
}

// Delete removes a session. Deleting an absent token succeeds.
func (store *RedisStore) Delete(ctx context.Context, token string) error {
	if err := store.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("redis_session_store_delete_failed: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: key TTLs already evict past-ceiling sessions.
func (store *RedisStore) DeleteExpired(_ context.Context, _ time.Time) error {
	return nil
}
