package adminapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaan-apps/portal/storage"
	"github.com/gyaan-apps/portal/storage/model"
)

func newTestAPI(t *testing.T) (*fiber.App, model.Backends) {
	t.Helper()
	backs, err := storage.LoadBackends(
		storage.Config{
			Backend:       storage.BackendTypeFile,
			DataDir:       t.TempDir(),
			UsersHash:     storage.Argon2idParams{Time: 1, MemoryKiB: 8, Parallelism: 1, KeyLen: 16, SaltLen: 8},
			ResetTokenTTL: time.Hour,
		},
	)
	require.NoError(t, err)
	app := fiber.New()
	Register(app.Group("/api/v1/admin"), backs, "http://portal.test")
	return app, backs
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, basicAuth [2]string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if basicAuth[0] != "" {
		req.SetBasicAuth(basicAuth[0], basicAuth[1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAdminAPIOpenWithoutUsers(t *testing.T) {
	app, _ := newTestAPI(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/admin/users/", nil, [2]string{})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminAPIRequiresAuthWithUsers(t *testing.T) {
	app, backs := newTestAPI(t)
	_, err := backs.Users.Create("admin", "secret123", "admin@example.com")
	require.NoError(t, err)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/admin/users/", nil, [2]string{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/admin/users/", nil, [2]string{"admin", "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/admin/users/", nil, [2]string{"admin", "secret123"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminAPICreateUser(t *testing.T) {
	app, backs := newTestAPI(t)

	resp := doJSON(
		t, app, http.MethodPost, "/api/v1/admin/users/",
		map[string]string{"username": "Alice", "password": "secret123", "email": "alice@example.com"},
		[2]string{},
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	u, err := backs.Users.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Username)

	// duplicates conflict
	resp = doJSON(
		t, app, http.MethodPost, "/api/v1/admin/users/",
		map[string]string{"username": "alice", "password": "secret123", "email": "other@example.com"},
		[2]string{"Alice", "secret123"},
	)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAdminAPIResetLink(t *testing.T) {
	app, backs := newTestAPI(t)
	_, err := backs.Users.Create("Alice", "secret123", "alice@example.com")
	require.NoError(t, err)

	resp := doJSON(
		t, app, http.MethodPost, "/api/v1/admin/reset-links",
		map[string]string{"username": "alice@example.com"},
		[2]string{"alice", "secret123"},
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Username string `json:"username"`
		Token    string `json:"token"`
		URL      string `json:"url"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Alice", body.Username)
	assert.NotEmpty(t, body.Token)
	assert.Contains(t, body.URL, "http://portal.test/reset?token=")

	username, err := backs.ResetTokens.Verify(body.Token)
	require.NoError(t, err)
	assert.Equal(t, "Alice", username)
}

func TestAdminAPIContent(t *testing.T) {
	app, _ := newTestAPI(t)

	updated := model.Content{
		FAQs:  []model.FAQEntry{{Question: "Q", Answer: "A"}},
		About: model.About{Title: "About", Content: "Text"},
	}
	resp := doJSON(t, app, http.MethodPut, "/api/v1/admin/content/", updated, [2]string{})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/admin/content/", nil, [2]string{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got model.Content
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, updated, got)
}
