// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package newsletter

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// TokenLength is the number of random bytes for confirmation tokens.
const TokenLength = 32

// NewToken generates a new opaque confirmation token.
func NewToken() (string, error) {
	bytes := make([]byte, TokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
