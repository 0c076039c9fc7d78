package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// RefreshTokenTTL is the fixed lifetime of persisted refresh tokens.
const RefreshTokenTTL = 7 * 24 * time.Hour

// NewRefreshTokenValue returns an opaque random token value. 48 bytes of
// entropy, not derived from any user data.
func NewRefreshTokenValue() (string, error) {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
