// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labramp/backbone/internal/platform/apperr"
	"github.com/labramp/backbone/internal/platform/sec"
)

// lowIterations keeps the test suite fast. Format behavior is identical at
// any iteration count.
const lowIterations = 1000

/*
TestHashPassword_RoundTrip verifies that a hashed password verifies against
the original and rejects any other candidate.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	encoded, err := sec.HashPassword("hello-world-123", "", lowIterations)
	require.NoError(t, err)

	// 1. The original password verifies.
	ok, err := sec.VerifyPassword("hello-world-123", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	// 2. A different password does not.
	ok, err = sec.VerifyPassword("hello-world-124", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

/*
TestHashPassword_SaltRandomized verifies that two independent hashes of the
same password differ, yet both verify.
*/
func TestHashPassword_SaltRandomized(t *testing.T) {
	first, err := sec.HashPassword("same-password", "", lowIterations)
	require.NoError(t, err)

	second, err := sec.HashPassword("same-password", "", lowIterations)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	ok, err := sec.VerifyPassword("same-password", first)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sec.VerifyPassword("same-password", second)
	require.NoError(t, err)
	assert.True(t, ok)
}

/*
TestHashPassword_Deterministic verifies that a fixed salt and iteration count
produce a stable output, which is what login verification depends on.
*/
func TestHashPassword_Deterministic(t *testing.T) {
	first, err := sec.HashPassword("fixed", "aabbccdd", lowIterations)
	require.NoError(t, err)

	second, err := sec.HashPassword("fixed", "aabbccdd", lowIterations)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

/*
TestHashPassword_Format verifies the four mandatory $-delimited fields.
*/
func TestHashPassword_Format(t *testing.T) {
	encoded, err := sec.HashPassword("format-check", "", lowIterations)
	require.NoError(t, err)

	parts := strings.Split(encoded, "$")
	require.Len(t, parts, 4)
	assert.Equal(t, "pbkdf2_sha256", parts[0])
	assert.Equal(t, "1000", parts[1])
	assert.Len(t, parts[2], 32) // 16 random bytes, hex-encoded
	assert.Len(t, parts[3], 64) // SHA-256 output, hex-encoded

	assert.True(t, sec.IsHashed(encoded))
	assert.False(t, sec.IsHashed("plain-text"))
}

/*
TestHashPassword_TooLong verifies the fixed maximum length boundary.
*/
func TestHashPassword_TooLong(t *testing.T) {
	// 1. Exactly at the limit is accepted.
	_, err := sec.HashPassword(strings.Repeat("a", 128), "", lowIterations)
	require.NoError(t, err)

	// 2. One past the limit is a validation failure.
	_, err = sec.HashPassword(strings.Repeat("a", 129), "", lowIterations)
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CategoryValidation, appError.Category)
}

/*
TestSplitHash_Malformed verifies that undecodable stored values fail hard.
*/
func TestSplitHash_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"plain_text", "not-a-hash"},
		{"three_fields", "pbkdf2_sha256$1000$salt"},
		{"five_fields", "pbkdf2_sha256$1000$salt$hash$extra"},
		{"bad_iterations", "pbkdf2_sha256$many$salt$hash"},
		{"zero_iterations", "pbkdf2_sha256$0$salt$hash"},
		{"empty_salt", "pbkdf2_sha256$1000$$hash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sec.SplitHash(tt.encoded)
			assert.ErrorIs(t, err, sec.ErrMalformedHash)

			_, err = sec.VerifyPassword("whatever", tt.encoded)
			assert.ErrorIs(t, err, sec.ErrMalformedHash)
		})
	}
}

/*
TestSplitHash_RoundTrip verifies parse/encode symmetry.
*/
func TestSplitHash_RoundTrip(t *testing.T) {
	encoded, err := sec.HashPassword("round-trip", "", lowIterations)
	require.NoError(t, err)

	parsed, err := sec.SplitHash(encoded)
	require.NoError(t, err)

	assert.Equal(t, "pbkdf2_sha256", parsed.Algorithm)
	assert.Equal(t, lowIterations, parsed.Iterations)
	assert.Equal(t, encoded, parsed.String())
}

/*
TestGenerateSecureToken verifies length, URL-safety, and uniqueness.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	// 32 bytes in unpadded base64 is 43 characters.
	assert.Len(t, first, 43)
	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "+")
	assert.NotContains(t, first, "/")
	assert.NotContains(t, first, "=")
}
