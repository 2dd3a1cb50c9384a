package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHashParams = Argon2idParams{Time: 1, MemoryKiB: 8, Parallelism: 1, KeyLen: 16, SaltLen: 8}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := hashPasswordArgon2id("secret123", testHashParams)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	ok, err := verifyPasswordArgon2id(hash, "secret123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifyPasswordArgon2id(hash, "Secret123")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := hashPasswordArgon2id("secret123", testHashParams)
	require.NoError(t, err)
	b, err := hashPasswordArgon2id("secret123", testHashParams)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestExtractArgon2idParams(t *testing.T) {
	hash, err := hashPasswordArgon2id("secret123", testHashParams)
	require.NoError(t, err)
	params, err := extractArgon2idParams(hash)
	require.NoError(t, err)
	assert.True(t, argon2idParamsEqual(params, testHashParams))
}

func TestVerifyPasswordRejectsForeignFormats(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8",
		"$2a$10$abcdefghijklmnopqrstuv",
	} {
		_, err := verifyPasswordArgon2id(encoded, "secret123")
		assert.Error(t, err, "encoded=%q", encoded)
	}
}
