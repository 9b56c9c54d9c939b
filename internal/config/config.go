// Package config loads the client configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Mode selects the authenticator behind login.
type Mode string

const (
	// ModeOnline authenticates against the IAM service.
	ModeOnline Mode = "online"
	// ModeOffline uses the built-in demo authenticator.
	ModeOffline Mode = "offline"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config is the client configuration, read from ~/.axiom/config.yaml.
type Config struct {
	ServerURL      string `yaml:"server_url" validate:"required,url"`
	TimeoutSeconds int    `yaml:"timeout" validate:"gte=0"`
	Mode           Mode   `yaml:"mode" validate:"required,oneof=online offline"`
	StateDir       string `yaml:"state_dir"`
	CacheDir       string `yaml:"cache_dir"`
	MaxRetries     uint   `yaml:"max_retries" validate:"lte=10"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		ServerURL:      "http://localhost:8080/api/v1",
		TimeoutSeconds: 10,
		Mode:           ModeOnline,
		MaxRetries:     3,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".axiom", "config.yaml"), nil
}

// Load reads the config file at path. An empty path means the default
// location, where a missing file yields the defaults; an explicit path must
// exist. File values overlay the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return cfg, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	log.Debug().Str("path", path).Str("mode", string(cfg.Mode)).Msg("config loaded")
	return cfg, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Timeout returns the request timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Write saves the configuration to path, creating parent directories.
func (c Config) Write(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
