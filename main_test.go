package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/mazerunner/game/config"
	"github.com/wricardo/mcp-training/mazerunner/game/session"
	"github.com/wricardo/mcp-training/mazerunner/transport/websocket"
)

func testSettings(t *testing.T) settings {
	t.Helper()
	cfg := defaultSettings()
	cfg.SessionsDir = t.TempDir()
	return cfg
}

func TestDefaultSettings(t *testing.T) {
	cfg := defaultSettings()
	assert.Equal(t, "localhost:8080", cfg.addr())
	assert.Equal(t, "configs", cfg.ConfigDir)
	assert.Equal(t, "sessions", cfg.SessionsDir)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.Ngrok)
}

func TestApp(t *testing.T) {
	app := newApp()
	assert.Equal(t, Version, app.Version)

	names := map[string][]string{}
	for _, c := range app.Commands {
		names[c.Name] = c.Aliases
	}
	assert.ElementsMatch(t, []string{"http"}, names["server"])
	assert.ElementsMatch(t, []string{"mcp-stdio", "mcp"}, names["stdio-mcp"])

	var flags []string
	for _, f := range app.Flags {
		flags = append(flags, f.Names()[0])
	}
	assert.Subset(t, flags, []string{"host", "port", "config-dir", "sessions-dir", "redis-addr", "debug", "ngrok"})
}

func TestInitializeServices(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gameService, err := initializeServices(ctx, testSettings(t))
	require.NoError(t, err)

	configs, err := gameService.ListConfigs(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, configs)
}

func TestInitializeServices_MissingConfigDir(t *testing.T) {
	cfg := testSettings(t)
	cfg.ConfigDir = "/non/existent/path"

	_, err := initializeServices(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewPersistence(t *testing.T) {
	cm, err := config.NewManager("configs")
	require.NoError(t, err)

	t.Run("files by default", func(t *testing.T) {
		cfg := defaultSettings()
		cfg.SessionsDir = filepath.Join(t.TempDir(), "sessions")

		store, err := newPersistence(context.Background(), cfg, cm)
		require.NoError(t, err)
		assert.IsType(t, &session.FilePersistence{}, store)

		_, err = os.Stat(cfg.SessionsDir)
		assert.NoError(t, err, "sessions directory should be created")
	})

	t.Run("unreachable redis", func(t *testing.T) {
		cfg := testSettings(t)
		cfg.RedisAddr = "127.0.0.1:1" // nothing listens on port 1

		_, err := newPersistence(context.Background(), cfg, cm)
		assert.ErrorContains(t, err, "unreachable")
	})
}

func TestSyncWithPersistence(t *testing.T) {
	cm, err := config.NewManager("configs")
	require.NoError(t, err)
	store, err := session.NewFilePersistence(t.TempDir(), cm)
	require.NoError(t, err)
	manager := session.NewManagerWithPersistence(store)

	kept, err := manager.Create("", cm.GetDefault(), nil)
	require.NoError(t, err)
	orphan, err := manager.Create("", cm.GetDefault(), nil)
	require.NoError(t, err)
	require.NoError(t, store.Delete(orphan.ID))

	assert.Equal(t, 1, syncWithPersistence(manager, store))
	_, err = manager.Get(kept.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, manager.Count())

	assert.Zero(t, syncWithPersistence(manager, nil))
}

func TestRouterServesAPIAndMCP(t *testing.T) {
	gameService, err := initializeServices(t.Context(), testSettings(t))
	require.NoError(t, err)

	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	router := newRouter(gameService, hub, "http://127.0.0.1:0")
	serve := func(method, path string, body []byte) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, path, bytes.NewReader(body)))
		return rec
	}

	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/api/health", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(http.MethodGet, "/mcp", nil).Code)

	rec := serve(http.MethodPost, "/mcp", []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "generate_maze")
	assert.Contains(t, rec.Body.String(), `"jsonrpc":"2.0"`)
}

func TestAPIAvailable(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer healthy.Close()

	assert.True(t, apiAvailable(context.Background(), healthy.URL))
	assert.False(t, apiAvailable(context.Background(), "http://127.0.0.1:1"))
}

func TestStartInternalAPI(t *testing.T) {
	gameService, err := initializeServices(t.Context(), testSettings(t))
	require.NoError(t, err)

	baseURL, err := startInternalAPI(gameService)
	require.NoError(t, err)
	assert.True(t, apiAvailable(context.Background(), baseURL))
}
