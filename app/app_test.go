package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/taskmanager-go/config"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Database: config.DatabaseConfig{URI: "memory://", Name: "TaskManagerDB", MaxConns: 10},
		Auth:     config.AuthConfig{JWTSecret: "test-secret", TokenDuration: time.Hour},
		Server: config.ServerConfig{
			Port:         "8080",
			FrontendURLs: []string{"http://localhost:5173"},
			Environment:  config.EnvDevelopment,
		},
		Log: config.LogConfig{Level: "error", Format: "json"},
	}
}

func newTestApp(t *testing.T, stores *Stores) (*App, *httptest.Server) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := NewWithStores(testConfig(), logger, stores)
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return a, srv
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) call(method, path, body string) (int, map[string]any) {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestEndToEnd(t *testing.T) {
	t.Parallel()
	_, srv := newTestApp(t, MemoryStores())
	c := &client{t: t, base: srv.URL + "/api/v1"}

	status, _ := c.call(http.MethodPost, "/user/signup", `{"name":"Jane","email":"jane@x.com","password":"Passw0rd!"}`)
	require.Equal(t, http.StatusCreated, status)

	status, body := c.call(http.MethodPost, "/user/signin", `{"email":"jane@x.com","password":"Passw0rd!"}`)
	require.Equal(t, http.StatusOK, status)
	c.token = body["token"].(string)

	status, body = c.call(http.MethodPost, "/task/create", `{"title":"Buy milk"}`)
	require.Equal(t, http.StatusCreated, status)
	task := body["data"].(map[string]any)
	assert.Equal(t, false, task["completed"])
	id := task["_id"].(string)

	status, body = c.call(http.MethodPatch, "/task/update-task/"+id, `{"completed":true}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["data"].(map[string]any)["completed"])

	status, body = c.call(http.MethodGet, "/task/get-complete", "")
	require.Equal(t, http.StatusOK, status)
	list := body["data"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].(map[string]any)["_id"])

	status, _ = c.call(http.MethodDelete, "/task/delete-task/"+id, "")
	require.Equal(t, http.StatusOK, status)

	status, body = c.call(http.MethodGet, "/task/get/"+id, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Task not found.", body["message"])
}

func TestAuthGuard(t *testing.T) {
	t.Parallel()
	a, srv := newTestApp(t, MemoryStores())
	c := &client{t: t, base: srv.URL + "/api/v1"}

	status, body := c.call(http.MethodGet, "/task/get-tasks", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token is missing, User not authorized", body["message"])

	c.token = "not-a-jwt"
	status, body = c.call(http.MethodGet, "/task/get-tasks", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token, User not authorized", body["message"])

	// A valid token for a user that doesn't exist (e.g. deleted since).
	c.token, _ = a.Tokens.Issue("ghost")
	status, body = c.call(http.MethodGet, "/task/get-tasks", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "User not found, User not authorized", body["message"])

	c.token = ""
	status, _ = c.call(http.MethodGet, "/task/get-all", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestDeleteAccountRevokesAccess(t *testing.T) {
	t.Parallel()
	a, srv := newTestApp(t, MemoryStores())
	c := &client{t: t, base: srv.URL + "/api/v1"}

	_, body := c.call(http.MethodPost, "/user/signup", `{"name":"Jane","email":"jane@x.com","password":"Passw0rd!"}`)
	c.token = body["data"].(map[string]any)["token"].(string)
	status, _ := c.call(http.MethodPost, "/task/create", `{"title":"Buy milk"}`)
	require.Equal(t, http.StatusCreated, status)

	_, purged, err := a.Users.DeleteAccountByEmail(context.Background(), "jane@x.com")
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	status, _ = c.call(http.MethodGet, "/task/get-tasks", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	c.token = ""
	_, body = c.call(http.MethodGet, "/task/get-all", "")
	assert.Equal(t, "No tasks found.", body["message"])
}

func TestOperationalRoutes(t *testing.T) {
	t.Parallel()

	_, srv := newTestApp(t, MemoryStores())
	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "Server is Working 👌", string(b))

	c := &client{t: t, base: srv.URL}
	status, _ := c.call(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = c.call(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, status)
	status, body := c.call(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Route not found.", body["message"])

	down := MemoryStores()
	down.Ping = func(context.Context) error { return errors.New("connection refused") }
	_, srv = newTestApp(t, down)
	c = &client{t: t, base: srv.URL}
	status, _ = c.call(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestOpenStores_Memory(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	stores, err := OpenStores(context.Background(), config.DatabaseConfig{URI: "memory://"}, logger)
	require.NoError(t, err)
	assert.NoError(t, stores.Ping(context.Background()))
	assert.NoError(t, stores.Close(context.Background()))

	_, err = OpenStores(context.Background(), config.DatabaseConfig{URI: "redis://localhost"}, logger)
	assert.Error(t, err)
}
