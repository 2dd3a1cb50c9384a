package storage

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requires a cgo sqlite build, therefore gated
func newTestGormStorage(t *testing.T) *Storage {
	t.Helper()
	if os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("set RUN_INTEGRATION_TESTS to run database tests")
	}
	s, err := NewStorage(
		Config{
			Backend:       BackendTypeGorm,
			Driver:        DriverSQLite,
			DataDir:       t.TempDir(),
			UsersHash:     testHashParams,
			ResetTokenTTL: time.Hour,
		},
	)
	require.NoError(t, err)
	return s
}

func TestGormUsersRoundTrip(t *testing.T) {
	users := newTestGormStorage(t).UsersStorage()

	_, err := users.Create("Alice", "secret123", "alice@example.com")
	require.NoError(t, err)

	u, err := users.Get("ALICE")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Username)

	_, err = users.Create("alice", "other456", "other@example.com")
	require.Error(t, err)
	assert.EqualError(t, err, "Username already exists")

	_, err = users.Authenticate("alice", "secret123")
	assert.NoError(t, err)
	_, err = users.Authenticate("alice", "wrong")
	assert.EqualError(t, err, "invalid credentials")
}

func TestGormResetTokens(t *testing.T) {
	s := newTestGormStorage(t)
	tokens := s.ResetTokensStorage()

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

func TestGormContentSeedsDefault(t *testing.T) {
	content := newTestGormStorage(t).ContentStorage()

	got, err := content.Get()
	require.NoError(t, err)
	require.NotEmpty(t, got.FAQs)
	assert.Equal(t, "About Gyaan", got.About.Title)
}
