// Package config provides configuration management for localtv using Viper.
// It supports configuration from files, environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Default configuration values.
const (
	defaultServerPort      = 8080
	defaultServerTimeout   = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultHeaderSize      = "2MiB"
	defaultMaxHeaderSize   = "64MiB"
	defaultAdFrequency     = 3
	defaultAdMinPerBreak   = 1
	defaultAdMaxPerBreak   = 2
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Probe    ProbeConfig    `mapstructure:"probe"`
	Rotation RotationConfig `mapstructure:"rotation"`
	Ads      AdsConfig      `mapstructure:"ads"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	// RequestLogging logs every request; when false only errors are logged.
	RequestLogging bool `mapstructure:"request_logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`  // trace, debug, info, warn, error
	Format     string `mapstructure:"format"` // json, text
	AddSource  bool   `mapstructure:"add_source"`
	TimeFormat string `mapstructure:"time_format"`
	// RedactFields lists attribute names whose values are masked in logs.
	RedactFields []string `mapstructure:"redact_fields"`
}

// ProbeConfig holds track probing configuration.
type ProbeConfig struct {
	// HeaderSize is how many leading bytes of a file are read to find its
	// track list. Supports human-readable values like "2MiB".
	HeaderSize ByteSize `mapstructure:"header_size"`
	// MaxHeaderSize caps request bodies on the probe endpoint.
	MaxHeaderSize ByteSize `mapstructure:"max_header_size"`
}

// RotationConfig holds the playlists feeding the channel.
type RotationConfig struct {
	Playlists    []string `mapstructure:"playlists"`
	AdsPlaylists []string `mapstructure:"ads_playlists"`
	// ReloadCron is a 5-field cron expression; empty disables reloading.
	ReloadCron string `mapstructure:"reload_cron"`
}

// AdsConfig holds advertisement break configuration.
type AdsConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	Frequency   int  `mapstructure:"frequency"`     // normal items between breaks
	MinPerBreak int  `mapstructure:"min_per_break"` // ads per break, lower bound
	MaxPerBreak int  `mapstructure:"max_per_break"` // ads per break, upper bound
}

// Load reads configuration from file and environment variables.
// Environment variables take precedence over file configuration.
// Environment variables are prefixed with LOCALTV_ and use underscores for nesting.
// Example: LOCALTV_SERVER_PORT=8080.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/localtv")
		v.AddConfigPath("$HOME/.localtv")
	}

	v.SetEnvPrefix("LOCALTV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults configures default values for all configuration options.
// This should be called before reading the config file to ensure defaults are in place.
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.read_timeout", defaultServerTimeout)
	v.SetDefault("server.write_timeout", defaultServerTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.request_logging", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)
	v.SetDefault("logging.redact_fields", []string{"password", "token", "api_key"})

	// Probe defaults
	v.SetDefault("probe.header_size", defaultHeaderSize)
	v.SetDefault("probe.max_header_size", defaultMaxHeaderSize)

	// Rotation defaults
	v.SetDefault("rotation.playlists", []string{})
	v.SetDefault("rotation.ads_playlists", []string{})
	v.SetDefault("rotation.reload_cron", "")

	// Ads defaults
	v.SetDefault("ads.enabled", false)
	v.SetDefault("ads.frequency", defaultAdFrequency)
	v.SetDefault("ads.min_per_break", defaultAdMinPerBreak)
	v.SetDefault("ads.max_per_break", defaultAdMaxPerBreak)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Server validation
	const maxPort = 65535
	if c.Server.Port < 1 || c.Server.Port > maxPort {
		return fmt.Errorf("server.port must be between 1 and %d", maxPort)
	}

	// Logging validation
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	// Probe validation
	if c.Probe.HeaderSize <= 0 {
		return fmt.Errorf("probe.header_size must be positive")
	}
	if c.Probe.MaxHeaderSize < c.Probe.HeaderSize {
		return fmt.Errorf("probe.max_header_size must be at least probe.header_size")
	}

	// Rotation validation
	if c.Rotation.ReloadCron != "" {
		if _, err := cron.ParseStandard(c.Rotation.ReloadCron); err != nil {
			return fmt.Errorf("rotation.reload_cron is invalid: %w", err)
		}
	}

	// Ads validation; the scheduler clamps, but a negative value is a typo.
	if c.Ads.Frequency < 0 || c.Ads.MinPerBreak < 0 || c.Ads.MaxPerBreak < 0 {
		return fmt.Errorf("ads.frequency, ads.min_per_break and ads.max_per_break must not be negative")
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
