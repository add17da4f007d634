package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"missionchat/internal/config"
	"missionchat/internal/dispatch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvAPIURL, config.EnvUserID, config.EnvTheme, config.EnvDebug} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestResolveConfig_Precedence(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "none.yaml")
	file := writeConfig(t, "api:\n  base_url: http://from-file:7000\n")

	cfg, err := resolveConfig(missing, "", "")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBaseURL, cfg.API.BaseURL)

	cfg, err = resolveConfig(file, "", "")
	require.NoError(t, err)
	assert.Equal(t, "http://from-file:7000", cfg.API.BaseURL)

	t.Setenv(config.EnvAPIURL, "http://from-env:8000")
	cfg, err = resolveConfig(file, "", "")
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8000", cfg.API.BaseURL)

	cfg, err = resolveConfig(file, "http://from-flag:9000", "light")
	require.NoError(t, err)
	assert.Equal(t, "http://from-flag:9000", cfg.API.BaseURL)
	assert.Equal(t, "light", cfg.UI.Theme)
}

func TestResolveConfig_Invalid(t *testing.T) {
	clearEnv(t)
	_, err := resolveConfig(filepath.Join(t.TempDir(), "none.yaml"), "ftp://nope", "")
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestAsk(t *testing.T) {
	clearEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"Mission Alpha, Mission Beta"}`))
	}))
	defer srv.Close()
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "ask", "--config", path, "--api-url", srv.URL, "--raw", "List", "current", "missions")

	require.NoError(t, err)
	assert.Equal(t, "Mission Alpha, Mission Beta\n", out)
}

func TestAsk_BackendDown(t *testing.T) {
	clearEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "ask", "--config", path, "--api-url", srv.URL, "--raw", "ping")

	require.NoError(t, err)
	assert.Contains(t, out, "Connection Error")
	assert.Contains(t, out, srv.URL)
	assert.Contains(t, out, "HTTP error! status: 500")
}

func TestAsk_EmptyReply(t *testing.T) {
	clearEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "ask", "--config", path, "--api-url", srv.URL, "--raw", "ping")

	require.NoError(t, err)
	assert.Equal(t, dispatch.FallbackReply+"\n", out)
}

func TestAsk_BlankQuery(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := execute(t, "ask", "--config", path, "   ")
	assert.ErrorContains(t, err, "query is empty")
}

func TestHealth(t *testing.T) {
	clearEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "health", "--config", path, "--api-url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, srv.URL+": ok")

	srv.Close()
	_, err = execute(t, "health", "--config", path, "--api-url", srv.URL)
	assert.ErrorContains(t, err, "backend unhealthy")
}

func TestConfigInitAndShow(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	assert.FileExists(t, path)

	_, err = execute(t, "config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "config", "init", "--config", path, "--force")
	assert.NoError(t, err)

	out, err = execute(t, "config", "show", "--config", path, "--api-url", "http://override:1234")
	require.NoError(t, err)
	assert.Contains(t, out, "base_url: http://override:1234")
	assert.Contains(t, out, "assistant_name: Mission Control")
}

func TestStub_RejectsBadFailStatus(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := execute(t, "stub", "--config", path, "--fail-status", "200")
	assert.ErrorContains(t, err, "--fail-status")
}
