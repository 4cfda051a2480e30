// Package config handles resolving configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// TokenSecretEnv overrides the token_secret config value when set, so the
// signing secret never has to land on disk next to the rest of the
// configuration.
const TokenSecretEnv = "GROOVIX_TOKEN_SECRET"

// Config is the resolved server configuration.
type Config struct {
	// Address is the listen address for the JSON API server.
	Address string `yaml:"address"`
	// DBFilepath is the path to the SQLite database file.
	DBFilepath string `yaml:"db_filepath"`
	// TokenSecret signs session tokens. An empty secret is a server
	// misconfiguration: login fails with an internal error until it is set.
	TokenSecret string `yaml:"token_secret"`
	// AllowedOrigins is the CORS allow-list. Credentialed requests are always
	// permitted for these origins since the session cookie is cross-site.
	AllowedOrigins []string `yaml:"allowed_origins"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// DevMode enables request logging and source locations in log output.
	DevMode bool `yaml:"dev_mode"`
}

// Default returns a version of the config with all default values populated.
// Note that the token secret is intentionally left unset; it must come from
// the config file or the environment.
func Default() *Config {
	return &Config{
		Address:        "localhost:5000",
		DBFilepath:     filepath.Join(xdg.DataHome, "groovix", "db.sqlite"),
		AllowedOrigins: []string{"http://localhost:5173"},
		LogLevel:       "info",
		DevMode:        false,
	}
}

// Load loads a YAML configuration file from a path, merges it with defaults,
// applies environment overrides, and validates it for completeness.
func Load(path string) (*Config, error) {
	bytes, err := os.ReadFile(path) //nolint:gosec // allow the config file to be loaded from anywhere
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err = yaml.Unmarshal(bytes, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file at %s: %w", path, err)
	}
	if secret := os.Getenv(TokenSecretEnv); secret != "" {
		cfg.TokenSecret = secret
	}
	if err = cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Address == "" {
		return fmt.Errorf("address must not be empty")
	}
	if c.DBFilepath == "" {
		return fmt.Errorf("db_filepath must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	return nil
}
