// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Backend      BackendConfig      `yaml:"backend"`
	Session      SessionConfig      `yaml:"session"`
	Player       PlayerConfig       `yaml:"player"`
	Notification NotificationConfig `yaml:"notification"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr  string      `yaml:"addr" default:":8080"`
	Hooks HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// BackendConfig represents recommendation backend configuration.
type BackendConfig struct {
	BaseURL   string `yaml:"base_url" validate:"required,url"`
	TimeoutMs int    `yaml:"timeout_ms" default:"10000" validate:"gte=100,lte=120000"`
	Profile   string `yaml:"profile"`
}

// SessionConfig represents session build configuration.
type SessionConfig struct {
	DefaultN int `yaml:"default_n" default:"25" validate:"gte=1,lte=500"`
}

// PlayerConfig represents embedded player configuration.
type PlayerConfig struct {
	APILoadTimeoutMs int    `yaml:"api_load_timeout_ms" default:"15000" validate:"gte=100,lte=120000"`
	APIScriptURL     string `yaml:"api_script_url" default:"https://www.youtube.com/iframe_api" validate:"url"`
	KeymapEnabled    *bool  `yaml:"keymap_enabled" default:"true"`
}

// NotificationConfig represents page command delivery configuration.
type NotificationConfig struct {
	QueueSize int `yaml:"queue_size" default:"256" validate:"gte=16,lte=65536"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse parses configuration from YAML data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("RCPLAYER_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("RCPLAYER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("RCPLAYER_PROFILE"); v != "" {
		c.Backend.Profile = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// BackendTimeout returns the backend request timeout.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutMs) * time.Millisecond
}

// APILoadTimeout returns how long to wait for the page to load the player API.
func (c *Config) APILoadTimeout() time.Duration {
	return time.Duration(c.Player.APILoadTimeoutMs) * time.Millisecond
}


// KeysEnabled reports whether keyboard shortcuts are enabled.
func (c *Config) KeysEnabled() bool {
	return c.Player.KeymapEnabled == nil || *c.Player.KeymapEnabled
}
