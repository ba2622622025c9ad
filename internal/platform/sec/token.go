// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package sec

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// # Secure Randomness

// GenerateSecureToken returns a URL-safe random string built from n bytes of
// OS entropy. Used for opaque session tokens.
func GenerateSecureToken(n int) (string, error) {
	buffer := make([]byte, n)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// randomHex returns n bytes of OS entropy, hex-encoded. Used for salts.
func randomHex(n int) (string, error) {
	buffer := make([]byte, n)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return hex.EncodeToString(buffer), nil
}
