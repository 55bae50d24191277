// Package token provides secret generation and verification utilities.
package token

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecret(t *testing.T) {
	secret, err := NewSecret()
	require.NoError(t, err)
	require.NotEmpty(t, secret)

	decoded, err := base64.RawURLEncoding.DecodeString(secret)
	require.NoError(t, err, "secret must be base64 RawURL encoded")
	assert.Len(t, decoded, SecretLength)
}

func TestNewSecret_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		secret, err := NewSecret()
		require.NoError(t, err)
		require.False(t, seen[secret], "duplicate secret generated")
		seen[secret] = true
	}
}

func TestNewSecretWithLength(t *testing.T) {
	for _, length := range []int{16, 32, 64} {
		secret, err := NewSecretWithLength(length)
		require.NoError(t, err)

		decoded, err := base64.RawURLEncoding.DecodeString(secret)
		require.NoError(t, err)
		assert.Len(t, decoded, length)
	}
}

func TestHash(t *testing.T) {
	hash := Hash("some-secret")

	// SHA-256 hex is 64 lowercase characters.
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, Hash("some-secret"), "hash must be deterministic")
	assert.NotEqual(t, hash, Hash("other-secret"))
}

func TestVerify(t *testing.T) {
	secret := "my-session-secret"
	hash := Hash(secret)

	assert.True(t, Verify(secret, hash))
	assert.False(t, Verify("wrong-secret", hash))
	assert.False(t, Verify(secret, "wrong-hash"))
	assert.False(t, Verify("", hash))
	assert.True(t, Verify("", Hash("")))
}

func BenchmarkNewSecret(b *testing.B) {
	for i := 0; i < b.N; i++ {
		NewSecret()
	}
}

func BenchmarkVerify(b *testing.B) {
	hash := Hash("benchmark-secret")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Verify("benchmark-secret", hash)
	}
}
