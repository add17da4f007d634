package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides_API(t *testing.T) {
	t.Run("MISSION_API_URL overrides default", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvAPIURL, "https://deployed.example.com")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "https://deployed.example.com", cfg.API.BaseURL)
	})

	t.Run("MISSION_API_URL overrides file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvAPIURL, "http://127.0.0.1:9000")

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: https://from-file.example.com\n"), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:9000", cfg.API.BaseURL)
	})

	t.Run("whitespace-only value is ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvAPIURL, "   ")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	})

	t.Run("MISSION_USER_ID", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvUserID, "console-7")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "console-7", cfg.API.UserID)
	})
}

func TestEnvOverrides_UIAndLogging(t *testing.T) {
	t.Run("MISSION_THEME", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvTheme, ThemeLight)

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, ThemeLight, cfg.UI.Theme)
	})

	t.Run("MISSION_DEBUG true", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvDebug, "1")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.True(t, cfg.Logging.DebugMode)
	})

	t.Run("MISSION_DEBUG unparsable is ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvDebug, "maybe")

		cfg := DefaultConfig()
		cfg.Logging.DebugMode = true
		cfg.applyEnvOverrides()

		assert.True(t, cfg.Logging.DebugMode)
	})
}
