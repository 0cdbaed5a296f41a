package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// Entropy of opaque tokens, in bytes.
const (
	TokenSize128 = 16
	TokenSize256 = 32
)

var b64 = base64.RawURLEncoding

// GenerateToken returns size bytes from crypto/rand as unpadded base64url.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", errors.New("cryptox: token size must be positive")
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return b64.EncodeToString(buf), nil
}

// FingerprintToken hashes an opaque token for storage and lookup.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return b64.EncodeToString(sum[:])
}
