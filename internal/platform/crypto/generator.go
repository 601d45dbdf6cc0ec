// File: internal/platform/crypto/generator.go
package crypto

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/base64"
	"strings"
)

// GenerateSecureRandomString creates a cryptographically secure random string.
// n is the number of bytes of randomness, resulting string length will be larger due to base64 encoding.
func GenerateSecureRandomString(n int) (string, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

var referenceEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateReference returns a short human readable reference such as "LST-4KZQ7M2A".
func GenerateReference(prefix string) (string, error) {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	code := referenceEncoding.EncodeToString(b)
	if prefix == "" {
		return code, nil
	}
	return strings.ToUpper(prefix) + "-" + code, nil
}
