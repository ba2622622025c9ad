// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

/*
Package sec provides cryptographic primitives for credentials and tokens.

It isolates security-sensitive code (password key derivation, secure token
generation) from the domain logic. Callers are responsible for persisting
results; nothing in this package touches storage.

Core Responsibilities:

  - Hashing: PBKDF2-HMAC-SHA256 with self-describing encoded output.
  - Verification: Constant-time comparison against stored hashes.
  - Tokens: Cryptographically secure, URL-safe opaque strings.
*/
package sec

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/labramp/backbone/internal/platform/apperr"
	"github.com/labramp/backbone/internal/platform/constants"
)

// # Hash Format

const (
	// hashAlgorithmTag identifies the key derivation scheme in stored hashes.
	// Changing it invalidates every stored credential; treat as permanent.
	hashAlgorithmTag = "pbkdf2_sha256"

	// saltBytes is the size of generated salts (128-bit, hex-encoded).
	saltBytes = 16

	// derivedKeyLength is the PBKDF2 output size, matching SHA-256.
	derivedKeyLength = 32
)

// ErrMalformedHash is returned when a stored password representation cannot
// be split into its four mandatory fields. A stored hash in this state is a
// data corruption problem, not a login failure.
var ErrMalformedHash = fmt.Errorf("sec: unable to split stored password hash")

// EncodedHash is the parsed form of a stored password representation.
type EncodedHash struct {
	Algorithm  string
	Iterations int
	Salt       string
	Hash       string
}

// String re-encodes the hash into its canonical 4-field, $-delimited form.
func (h EncodedHash) String() string {
	return fmt.Sprintf("%s$%d$%s$%s", h.Algorithm, h.Iterations, h.Salt, h.Hash)
}

// # Hashing

/*
HashPassword derives a storable representation of a raw password.

Description: PBKDF2-HMAC-SHA256 with the given iteration count, hex-encoded,
wrapped in the self-describing "pbkdf2_sha256$<iter>$<salt>$<hash>" format so
that old hashes stay verifiable when the default iteration count is raised.

Parameters:
  - password: Raw password text.
  - salt: Hex salt to reuse; empty generates a random 128-bit salt.
  - iterations: Iteration count; <= 0 selects [constants.DefaultHashIterations].

Returns:
  - string: Encoded hash ready for storage.
  - error: Validation failure for excessively long passwords.
*/
func HashPassword(password, salt string, iterations int) (string, error) {
	if len(password) > constants.MaxPasswordLength {
		return "", apperr.Validation("The password is too long.")
	}

	if salt == "" {
		generated, err := randomHex(saltBytes)
		if err != nil {
			return "", fmt.Errorf("sec: failed to generate salt: %w", err)
		}
		salt = generated
	}

	if iterations <= 0 {
		iterations = constants.DefaultHashIterations
	}

	derived := pbkdf2.Key([]byte(password), []byte(salt), iterations, derivedKeyLength, sha256.New)

	return EncodedHash{
		Algorithm:  hashAlgorithmTag,
		Iterations: iterations,
		Salt:       salt,
		Hash:       hex.EncodeToString(derived),
	}.String(), nil
}

// IsHashed reports whether a value already carries the encoded-hash tag.
// Used to intercept accidental double-hashing at the user factory boundary.
func IsHashed(value string) bool {
	return strings.HasPrefix(value, hashAlgorithmTag+"$")
}

// SplitHash parses a stored password representation.
//
// All four $-delimited fields are mandatory; anything else is [ErrMalformedHash].
func SplitHash(encoded string) (EncodedHash, error) {
	elements := strings.Split(encoded, "$")
	if len(elements) != 4 {
		return EncodedHash{}, ErrMalformedHash
	}

	iterations, err := strconv.Atoi(elements[1])
	if err != nil || iterations <= 0 {
		return EncodedHash{}, ErrMalformedHash
	}

	if elements[0] == "" || elements[2] == "" || elements[3] == "" {
		return EncodedHash{}, ErrMalformedHash
	}

	return EncodedHash{
		Algorithm:  elements[0],
		Iterations: iterations,
		Salt:       elements[2],
		Hash:       elements[3],
	}, nil
}

// # Verification

/*
VerifyPassword checks a candidate password against a stored representation.

Description: Recomputes the hash with the stored salt and iteration count,
then compares the full encoded strings in constant time.

Parameters:
  - password: Candidate raw password.
  - encoded: Stored representation produced by [HashPassword].

Returns:
  - bool: Whether the candidate matches.
  - error: [ErrMalformedHash] for undecodable stored values.
*/
func VerifyPassword(password, encoded string) (bool, error) {
	stored, err := SplitHash(encoded)
	if err != nil {
		return false, err
	}

	recomputed, err := HashPassword(password, stored.Salt, stored.Iterations)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare([]byte(recomputed), []byte(encoded)) == 1, nil
}
