// Package config loads SDK configuration from the environment and from
// optional YAML files. Environment variables win over file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the SDK needs to talk to a platform deployment.
type Config struct {
	// BaseURL is the versioned API base path, e.g. https://host/api/v1.
	BaseURL string `env:"LINGNEXUS_BASE_URL" yaml:"base_url"`

	// Timeout bounds a single HTTP attempt, not the whole retry sequence.
	// Defaults to 30s.
	Timeout time.Duration `env:"LINGNEXUS_TIMEOUT" yaml:"timeout"`

	// StateDir is where durable client state (credentials) lives.
	// Defaults to <user config dir>/lingnexus.
	StateDir string `env:"LINGNEXUS_STATE_DIR" yaml:"state_dir"`

	// MaxRetries caps retries after the first failed attempt. Defaults to 3.
	MaxRetries int `env:"LINGNEXUS_MAX_RETRIES" yaml:"max_retries"`

	// RetryBaseDelay is the delay before the first retry; each further
	// retry doubles it. Defaults to 1s.
	RetryBaseDelay time.Duration `env:"LINGNEXUS_RETRY_BASE_DELAY" yaml:"retry_base_delay"`

	// RateLimit is the client-side request budget in requests per second.
	// Zero disables limiting.
	RateLimit float64 `env:"LINGNEXUS_RATE_LIMIT" yaml:"rate_limit"`

	// RateBurst is the limiter burst size when RateLimit is set.
	RateBurst int `env:"LINGNEXUS_RATE_BURST" yaml:"rate_burst"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `env:"LINGNEXUS_LOG_LEVEL" yaml:"log_level"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := decodeEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, cfg.Validate()
}

// LoadFromPath reads configuration from a YAML file, then applies
// environment overrides on top.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := decodeEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, cfg.Validate()
}

func decodeEnv(cfg *Config) error {
	// Absent variables are fine; file values or defaults cover them.
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("decode environment: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() error {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryBaseDelay == 0 {
		c.RetryBaseDelay = time.Second
	}
	if c.RateBurst == 0 {
		c.RateBurst = 1
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.StateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("resolve state dir: %w", err)
		}
		c.StateDir = filepath.Join(base, "lingnexus")
	}
	return nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative")
	}
	return nil
}
