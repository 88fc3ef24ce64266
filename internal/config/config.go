// Package config loads the client configuration: built-in defaults,
// then an optional YAML file, then environment variables with the
// STOREFRONT_ prefix on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// APIBaseURL is the root of the Shopifyr REST API.
	APIBaseURL string `envconfig:"API_BASE_URL" yaml:"api_base_url"`

	// RequestTimeout bounds every remote call.
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" yaml:"request_timeout"`

	// StateDir holds the persisted session file. Empty means the
	// user's config directory.
	StateDir string `envconfig:"STATE_DIR" yaml:"state_dir"`

	// LogLevel is a zerolog level name.
	LogLevel string `envconfig:"LOG_LEVEL" yaml:"log_level"`
}

func defaults() Config {
	return Config{
		APIBaseURL:     "http://localhost:8080/api",
		RequestTimeout: 30 * time.Second,
		LogLevel:       "info",
	}
}

// Load starts from defaults, merges the YAML file at path when it
// exists, then applies env overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err == nil {
			if errYAML := yaml.Unmarshal(raw, &cfg); errYAML != nil {
				return nil, fmt.Errorf("parse config file: %w", errYAML)
			}
		}
	}

	if err := envconfig.Process("storefront", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if cfg.StateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = "."
		}
		cfg.StateDir = filepath.Join(base, "shopifyr")
	}
	return &cfg, nil
}

// SessionFile is the path of the persisted session storage.
func (c *Config) SessionFile() string {
	return filepath.Join(c.StateDir, "session.json")
}
