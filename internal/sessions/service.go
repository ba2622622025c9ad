// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/labramp/backbone/internal/platform/constants"
	"github.com/labramp/backbone/internal/platform/sec"
)

// maxTokenAttempts bounds the collision-retry loop during creation. With
// 32 bytes of entropy a retry is already extraordinary; hitting the bound
// means the entropy source is broken.
const maxTokenAttempts = 10

// Service owns session policy: token generation, expiry defaults, the
// sliding-extension rule, and revocation.
type Service struct {
	store  Store
	logger *slog.Logger

	// now is injectable so expiry arithmetic is testable.
	now func() time.Time
}

// ServiceOption customizes a session service.
type ServiceOption func(*Service)

// WithClock replaces the time source. Tests use this to pin "now".
func WithClock(now func() time.Time) ServiceOption {
	return func(service *Service) { service.now = now }
}

// NewService wires a session service over the given store.
func NewService(store Store, logger *slog.Logger, opts ...ServiceOption) *Service {
	service := &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// createParams holds the expiry policy for one session. Both durations are
// measured from the creation instant.
type createParams struct {
	expiry    time.Duration
	maxExpiry time.Duration
}

// CreateOption overrides the expiry policy for a single session.
type CreateOption func(*createParams)

// WithExpiry replaces the default sliding deadline for this session only.
func WithExpiry(expiry time.Duration) CreateOption {
	return func(params *createParams) { params.expiry = expiry }
}

// WithMaxExpiry replaces the default hard ceiling for this session only.
func WithMaxExpiry(maxExpiry time.Duration) CreateOption {
	return func(params *createParams) { params.maxExpiry = maxExpiry }
}

/*
Create opens a new session for a user.

Description: Generates a fresh opaque token and persists the session. The
sliding deadline and the hard ceiling default to the service-wide policy and
can be overridden per session via [WithExpiry] and [WithMaxExpiry]. Token
collisions are detected by the store's uniqueness constraint and retried with
a new token; the token is never reused or derived from user data.

Parameters:
  - ctx: Context for the store operation.
  - userID: The authenticated account the session belongs to.
  - opts: Optional per-session expiry overrides.

Returns:
  - *Session: The persisted session, including the token to hand the client.
  - error: Entropy or storage failures, or retry exhaustion.
*/
func (service *Service) Create(ctx context.Context, userID string, opts ...CreateOption) (*Session, error) {
	params := createParams{
		expiry:    constants.SessionDefaultExpiry,
		maxExpiry: constants.SessionDefaultMaxExpiry,
	}
	for _, opt := range opts {
		opt(&params)
	}

	now := service.now().UTC()

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := sec.GenerateSecureToken(constants.SessionTokenLength)
		if err != nil {
			return nil, err
		}

		session := &Session{
			Token:         token,
			UserID:        userID,
			ExpiryDate:    now.Add(params.expiry),
			MaxExpiryDate: now.Add(params.maxExpiry),
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		err = service.store.Insert(ctx, session)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, ErrTokenExists) {
			return nil, err
		}

		service.logger.WarnContext(ctx, "session_token_collision",
			slog.Int("attempt", attempt+1),
		)
	}

	return nil, fmt.Errorf("sessions: token generation exhausted after %d attempts", maxTokenAttempts)
}

/*
ValidateAndExtend resolves a token to its user and applies the sliding window.

Description: The check fails closed. An unknown, expired, or past-ceiling
token yields an empty user ID with a nil error; a non-nil error is reserved
for infrastructure failures so callers never mistake an outage for a valid
anonymous request. When the session is valid and its remaining lifetime is
shorter than extendBy, the sliding deadline advances by extendBy from its
current value, clamped to the ceiling, and is persisted before the user ID is
returned.

Parameters:
  - ctx: Context for the store operations.
  - token: The opaque token presented by the client.
  - extendBy: The sliding window. Zero or negative disables extension.

Returns:
  - string: The session's user ID, or "" when the token is not valid.
  - error: Storage failures only.
*/
func (service *Service) ValidateAndExtend(ctx context.Context, token string, extendBy time.Duration) (string, error) {
	if token == "" {
		return "", nil
	}

	session, err := service.store.Get(ctx, token)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", nil
	}

	now := service.now().UTC()
	if !session.Active(now) {
		return "", nil
	}

	// 1. Only sessions within extendBy of their deadline are pushed forward.
	// The deadline advances from its current value, not from now, so a
	// session validated late in its window keeps the full extension.
	if extendBy > 0 && session.ExpiryDate.Sub(now) < extendBy {
		newExpiry := session.ExpiryDate.Add(extendBy)
		if newExpiry.After(session.MaxExpiryDate) {
			newExpiry = session.MaxExpiryDate
		}

		// 2. The extension is durable before the request is authenticated.
		if newExpiry.After(session.ExpiryDate) {
			if err := service.store.UpdateExpiry(ctx, token, newExpiry, now); err != nil {
				return "", err
			}
		}
	}

	return session.UserID, nil
}

// Revoke deletes a session immediately. Revoking an unknown token succeeds;
// logout must be idempotent.
func (service *Service) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return service.store.Delete(ctx, token)
}

// DeleteExpired purges sessions whose hard ceiling has passed. Intended to
// run periodically; validation already fails closed without it.
func (service *Service) DeleteExpired(ctx context.Context) error {
	return service.store.DeleteExpired(ctx, service.now().UTC())
}
