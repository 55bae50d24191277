// Package token provides secret generation and verification utilities.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

// SecretLength is the entropy of a generated secret in bytes.
const SecretLength = 32

// NewSecret generates a cryptographically secure random secret.
//
// The returned secret is Base64 RawURL encoded so it can travel in
// HTTP headers and JSON bodies without further escaping.
func NewSecret() (string, error) {
	return NewSecretWithLength(SecretLength)
}

// NewSecretWithLength generates a secret with the given byte length.
func NewSecretWithLength(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hash computes the SHA-256 hash of a secret.
//
// The returned hash is hex encoded for storage.
func Hash(secret string) string {
	h := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(h[:])
}

// Verify checks a presented secret against a stored hash.
//
// Uses constant-time comparison to prevent timing attacks.
func Verify(secret, expectedHash string) bool {
	actual := Hash(secret)
	return subtle.ConstantTimeCompare([]byte(actual), []byte(expectedHash)) == 1
}
