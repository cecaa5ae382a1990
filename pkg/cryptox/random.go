package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateToken creates a cryptographically secure random string of size
// bytes, base64url-encoded without padding.
func GenerateToken(size int) (string, error) {
	b, err := randomBytes(size)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func randomBytes(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cryptox: size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("cryptox: read random: %w", err)
	}
	return buf, nil
}
