// Package config loads Mission Control chat configuration.
//
// Resolution order for every setting is: built-in default, then the YAML config
// file, then environment variables. Command-line flags are applied by the caller.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the chat backend used when nothing else is configured.
// It matches the default listen address of the reference backend.
const DefaultBaseURL = "http://localhost:5000"

// Environment variables understood by applyEnvOverrides.
const (
	EnvAPIURL = "MISSION_API_URL"
	EnvUserID = "MISSION_USER_ID"
	EnvTheme  = "MISSION_THEME"
	EnvDebug  = "MISSION_DEBUG"
)

// Config holds all Mission Control configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the remote chat endpoint.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	UserID  string `yaml:"user_id"`
	Timeout string `yaml:"timeout"` // empty = transport default (no timeout)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			UserID:  "frontend_user",
		},
		UI:      *DefaultUIConfig(),
		Logging: *DefaultLoggingConfig(),
	}
}

// DefaultPath returns ~/.mission/config.yaml, or a relative path if the home
// directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".mission", "config.yaml")
	}
	return filepath.Join(home, ".mission", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Defaults only
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvUserID)); v != "" {
		c.API.UserID = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = on
		}
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url is empty (set it in the config file or %s)", EnvAPIURL)
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url %q: %w", c.API.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api.base_url %q: scheme must be http or https", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q: missing host", c.API.BaseURL)
	}
	if c.API.Timeout != "" {
		if _, err := time.ParseDuration(c.API.Timeout); err != nil {
			return fmt.Errorf("invalid api.timeout %q: %w", c.API.Timeout, err)
		}
	}
	switch c.UI.Theme {
	case "", ThemeAuto, ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("invalid ui.theme %q (valid: %s, %s, %s)", c.UI.Theme, ThemeAuto, ThemeDark, ThemeLight)
	}
	return nil
}

// GetAPITimeout returns the request timeout, or zero when none is configured.
func (c *Config) GetAPITimeout() time.Duration {
	if c.API.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// GetHealthInterval returns how often the UI probes backend liveness.
func (c *Config) GetHealthInterval() time.Duration {
	d, err := time.ParseDuration(c.UI.HealthInterval)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}
