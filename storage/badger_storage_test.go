package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBadgerStorage(t *testing.T) *BadgerStorage {
	t.Helper()
	store, err := NewBadgerStorage(t.TempDir(), testHashParams, time.Hour)
	require.NoError(t, err)
	t.Cleanup(
		func() {
			_ = store.Close()
		},
	)
	return store
}

func TestBadgerUsersRoundTrip(t *testing.T) {
	users := newTestBadgerStorage(t).UsersStorage()

	_, err := users.Create("Alice", "secret123", "alice@example.com")
	require.NoError(t, err)

	u, err := users.Get("ALICE")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Username)

	_, err = users.Create("alice", "other456", "other@example.com")
	require.Error(t, err)
	assert.EqualError(t, err, "Username already exists")

	_, err = users.Create("bob", "other456", "ALICE@example.com")
	require.Error(t, err)
	assert.EqualError(t, err, "Email already exists")

	_, err = users.Authenticate("alice", "secret123")
	assert.NoError(t, err)
	_, err = users.Authenticate("alice", "wrong")
	assert.EqualError(t, err, "invalid credentials")
}

func TestBadgerResetTokens(t *testing.T) {
	tokens := newTestBadgerStorage(t).ResetTokensStorage()

	token, err := tokens.Generate("Alice")
	require.NoError(t, err)

	username, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "Alice", username)

	require.NoError(t, tokens.Consume(token))
	username, err = tokens.Verify(token)
	require.NoError(t, err)
	assert.Empty(t, username)
}

func TestBadgerContentSeedsDefault(t *testing.T) {
	content := newTestBadgerStorage(t).ContentStorage()

	got, err := content.Get()
	require.NoError(t, err)
	require.NotEmpty(t, got.FAQs)
	assert.Equal(t, "About Gyaan", got.About.Title)
}
