package sso

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeterministic(t *testing.T) {
	a := NewAuthority("GYAAN_SECRET_KEY_2025")

	token1, ts := a.Generate("Alice")
	token2, _ := a.Generate("Alice")
	assert.Equal(t, token1, token2)
	assert.Equal(t, TimestampStatic, ts)

	_, err := hex.DecodeString(token1)
	require.NoError(t, err)
	assert.Len(t, token1, 64)
}

func TestGenerateCaseFolds(t *testing.T) {
	a := NewAuthority("GYAAN_SECRET_KEY_2025")

	lower, _ := a.Generate("alice")
	for _, username := range []string{"Alice", "ALICE", "aLiCe"} {
		token, _ := a.Generate(username)
		assert.Equal(t, lower, token, "username=%q", username)
	}
}

func TestGenerateDependsOnSecretAndUser(t *testing.T) {
	a := NewAuthority("secret-a")
	b := NewAuthority("secret-b")

	tokenA, _ := a.Generate("alice")
	tokenB, _ := b.Generate("alice")
	assert.NotEqual(t, tokenA, tokenB)

	tokenBob, _ := a.Generate("bob")
	assert.NotEqual(t, tokenA, tokenBob)
}

func TestVerify(t *testing.T) {
	a := NewAuthority("GYAAN_SECRET_KEY_2025")
	token, _ := a.Generate("Alice")

	assert.True(t, a.Verify("alice", token))
	assert.True(t, a.Verify("ALICE", token))
	assert.False(t, a.Verify("bob", token))
	assert.False(t, a.Verify("alice", "deadbeef"))
	assert.False(t, a.Verify("alice", ""))
}

func TestKnownVector(t *testing.T) {
	// sha256("alice:GYAAN_SECRET_KEY_2025")
	a := NewAuthority("GYAAN_SECRET_KEY_2025")
	token, _ := a.Generate("Alice")
	assert.Equal(t, "44041b5064755bf1532618a78730e71ee12d65fc1e9d30663d0b2d540dffa456", token)
}
