// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

/*
Package constants provides centralized, immutable values for the entire scaffold.

It defines default timeouts, rate limits, session policy, and cross-cutting
keys that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Sessions: Default sliding and hard-ceiling expiry offsets.
  - Credentials: Hashing policy boundaries.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "backbone-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Sessions

const (
	// SessionTokenLength is the byte length of the random session token.
	SessionTokenLength = 32

	// SessionDefaultExpiry is the default sliding expiry offset for new sessions.
	SessionDefaultExpiry = 1 * time.Hour

	// SessionDefaultMaxExpiry is the hard ceiling beyond which a session can
	// never be extended. Fixed at creation.
	SessionDefaultMaxExpiry = 7 * 24 * time.Hour

	// SessionExtendBy is the sliding window applied when an authenticated
	// request validates a token that is close to expiring.
	SessionExtendBy = 1 * time.Hour
)

// # Credentials

const (
	// MinPasswordLength is the minimum accepted raw password length.
	MinPasswordLength = 6

	// MaxPasswordLength is the maximum accepted raw password length. Longer
	// input is rejected before any hashing work is done.
	MaxPasswordLength = 128

	// MaxEmailLength matches the users.email column width.
	MaxEmailLength = 255

	// DefaultHashIterations is the PBKDF2 iteration count used for new hashes.
	// Follows the OWASP recommendation for PBKDF2-HMAC-SHA256. Tunable upward
	// via configuration without invalidating previously stored hashes.
	DefaultHashIterations = 600_000
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderSessionToken  = "X-Session-Token"
)

// # JSON Field Identifiers

const (
	FieldErrors  = "errors"
	FieldStatus  = "status"
	FieldMessage = "message"
	FieldToken   = "token"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession = "sessions:token:"
)
