// Package randtoken generates opaque random identifiers for sessions and reset tokens.
package randtoken

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// DefaultBytes is the entropy of tokens produced by New (256 bits).
const DefaultBytes = 32

// Hex returns n random bytes encoded as a 2n-character hex string.
func Hex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// New returns a 64-character hex token.
func New() (string, error) {
	return Hex(DefaultBytes)
}
