package storage

import (
	"encoding/json"
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaan-apps/portal/storage/model"
)

func newTestFileStorage(t *testing.T) *FileStorage {
	t.Helper()
	return NewFileStorage(t.TempDir(), testHashParams, time.Hour)
}

func TestFileUsersCreatePreservesCasing(t *testing.T) {
	users := newTestFileStorage(t).UsersStorage()

	created, err := users.Create("Alice", "secret123", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", created.Username)
	assert.Equal(t, model.RoleUser, created.Role)
	assert.Empty(t, created.PasswordHash)

	// lookups are case-insensitive but return the signup casing
	for _, ident := range []string{"alice", "ALICE", "Alice"} {
		u, err := users.Get(ident)
		require.NoError(t, err)
		assert.Equal(t, "Alice", u.Username)
	}
}

func TestFileUsersDuplicateUsername(t *testing.T) {
	users := newTestFileStorage(t).UsersStorage()

	_, err := users.Create("Alice", "secret123", "alice@example.com")
	require.NoError(t, err)

	for _, name := range []string{"Alice", "alice", "ALICE"} {
		_, err = users.Create(name, "other456", "other@example.com")
		require.Error(t, err)
		assert.EqualError(t, err, "Username already exists")
	}
}

func TestFileUsersDuplicateEmail(t *testing.T) {
	users := newTestFileStorage(t).UsersStorage()

	_, err := users.Create("Alice", "secret123", "Alice@Example.com")
	require.NoError(t, err)

	_, err = users.Create("bob", "other456", "alice@example.com")
	require.Error(t, err)
	assert.EqualError(t, err, "Email already exists")
}

func TestFileUsersAuthenticate(t *testing.T) {
	users := newTestFileStorage(t).UsersStorage()

	_, err := users.Create("Alice", "secret123", "alice@example.com")
	require.NoError(t, err)

	u, err := users.Authenticate("alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Username)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "wrong"},
		{"unknown user", "mallory", "secret123"},
		{"empty password", "alice", ""},
	}
	for _, test := range tests {
		t.Run(
			test.name, func(t *testing.T) {
				_, err := users.Authenticate(test.username, test.password)
				require.Error(t, err)
				assert.EqualError(t, err, "invalid credentials")
			},
		)
	}
}

func TestFileUsersUpdatePassword(t *testing.T) {
	users := newTestFileStorage(t).UsersStorage()

	_, err := users.Create("Alice", "secret123", "alice@example.com")
	require.NoError(t, err)
	require.NoError(t, users.UpdatePassword("ALICE", "newpass456"))

	_, err = users.Authenticate("alice", "secret123")
	assert.Error(t, err)
	_, err = users.Authenticate("alice", "newpass456")
	assert.NoError(t, err)
}

func TestFileUsersGetByUsernameOrEmail(t *testing.T) {
	users := newTestFileStorage(t).UsersStorage()

	_, err := users.Create("Alice", "secret123", "Alice@Example.com")
	require.NoError(t, err)

	for _, ident := range []string{"alice", "alice@example.com", "ALICE@EXAMPLE.COM"} {
		u, err := users.GetByUsernameOrEmail(ident)
		require.NoError(t, err, "ident=%q", ident)
		assert.Equal(t, "Alice", u.Username)
	}

	_, err = users.GetByUsernameOrEmail("nobody@example.com")
	require.Error(t, err)
	assert.IsType(t, model.NotFoundError(""), err)
}

func TestFileUsersDelete(t *testing.T) {
	users := newTestFileStorage(t).UsersStorage()

	_, err := users.Create("Alice", "secret123", "alice@example.com")
	require.NoError(t, err)
	require.NoError(t, users.Delete("alice"))

	_, err = users.Get("Alice")
	assert.Error(t, err)

	count, err := users.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFileResetTokenRoundTrip(t *testing.T) {
	tokens := newTestFileStorage(t).ResetTokensStorage()

	token, err := tokens.Generate("Alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "Alice", username)

	// verification does not consume
	username, err = tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "Alice", username)

	require.NoError(t, tokens.Consume(token))
	username, err = tokens.Verify(token)
	require.NoError(t, err)
	assert.Empty(t, username)
}

func TestFileResetTokenUnknown(t *testing.T) {
	tokens := newTestFileStorage(t).ResetTokensStorage()
	username, err := tokens.Verify("no-such-token")
	require.NoError(t, err)
	assert.Empty(t, username)
}

func TestFileResetTokenExpiry(t *testing.T) {
	dir := t.TempDir()
	tokens := NewFileStorage(dir, testHashParams, time.Hour).ResetTokensStorage()

	// write an already-expired token directly
	expired := map[string]tokenRecord{
		"stale": {Username: "Alice", Expiry: time.Now().Add(-time.Minute).Format(time.RFC3339)},
	}
	data, err := json.Marshal(expired)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path.Join(dir, "reset_tokens.json"), data, 0600))

	username, err := tokens.Verify("stale")
	require.NoError(t, err)
	assert.Empty(t, username)

	// the expired token was removed from the file
	data, err = os.ReadFile(path.Join(dir, "reset_tokens.json"))
	require.NoError(t, err)
	var onDisk map[string]tokenRecord
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.NotContains(t, onDisk, "stale")
}

func TestFileContentSeedsDefault(t *testing.T) {
	dir := t.TempDir()
	content := NewFileStorage(dir, testHashParams, time.Hour).ContentStorage()

	got, err := content.Get()
	require.NoError(t, err)
	require.Len(t, got.FAQs, 1)
	assert.Equal(t, "What is Gyaan Apps?", got.FAQs[0].Question)
	assert.Equal(t, "About Gyaan", got.About.Title)

	// the default was written to disk
	_, err = os.Stat(path.Join(dir, "faq_data.json"))
	assert.NoError(t, err)
}

func TestFileContentSetAndGet(t *testing.T) {
	content := newTestFileStorage(t).ContentStorage()

	updated := model.Content{
		FAQs:  []model.FAQEntry{{Question: "How do I log in?", Answer: "Use your portal credentials."}},
		About: model.About{Title: "About", Content: "An internal portal."},
	}
	require.NoError(t, content.Set(updated))

	got, err := content.Get()
	require.NoError(t, err)
	assert.Equal(t, &updated, got)
}

func TestFileUsersMalformedFile(t *testing.T) {
	dir := t.TempDir()
	users := NewFileStorage(dir, testHashParams, time.Hour).UsersStorage()

	require.NoError(t, os.WriteFile(path.Join(dir, "users.json"), []byte("{not json"), 0600))
	_, err := users.Get("alice")
	assert.Error(t, err)

	// an incomplete record is a load error, not a silently skipped entry
	require.NoError(
		t, os.WriteFile(path.Join(dir, "users.json"), []byte(`{"alice":{"email":"a@example.com"}}`), 0600),
	)
	_, err = users.Get("alice")
	assert.Error(t, err)
}
