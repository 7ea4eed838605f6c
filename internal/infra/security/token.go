package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenerateSecureToken returns a URL-safe random token with byteLen bytes of
// entropy.
func GenerateSecureToken(byteLen int) (string, error) {
	if byteLen <= 0 {
		byteLen = 32
	}
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secure token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateNumericCode returns a random numeric code of the given length,
// zero-padded.
func GenerateNumericCode(length int) (string, error) {
	if length <= 0 {
		length = 6
	}
	max := big.NewInt(1)
	for i := 0; i < length; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate numeric code: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a raw token. Stored in
// place of the raw value so a database leak yields nothing usable.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// FingerprintDevice derives a 16-hex-char device id from the user agent and
// client IP. A heuristic, not a reliable device identity.
func FingerprintDevice(userAgent, ipAddress string) string {
	sum := sha256.Sum256([]byte(userAgent + ipAddress))
	return hex.EncodeToString(sum[:])[:16]
}
