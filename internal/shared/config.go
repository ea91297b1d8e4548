package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// NetworkClass restricts which connection types a polling run may use.
type NetworkClass string

const (
	NetworkAny       NetworkClass = "any"
	NetworkUnmetered NetworkClass = "unmetered"
	NetworkMetered   NetworkClass = "metered"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database      DatabaseConfig      `toml:"database"`
	Sources       SourcesConfig       `toml:"sources"`
	Polling       PollingConfig       `toml:"polling"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// SourcesConfig contains catalog service settings.
type SourcesConfig struct {
	DeezerBaseURL string  `toml:"deezer_base_url"`
	ITunesBaseURL string  `toml:"itunes_base_url"`
	DeezerRPS     float64 `toml:"deezer_requests_per_second"`
	ITunesRPM     float64 `toml:"itunes_requests_per_minute"`
	CrossSource   bool    `toml:"cross_source_matching"`
}

// PollingConfig contains background polling settings.
type PollingConfig struct {
	IntervalMinutes     int          `toml:"interval_minutes"`
	MaxReleaseAgeWeeks  int          `toml:"max_release_age_weeks"`
	StartupDelaySeconds int          `toml:"startup_delay_seconds"`
	Network             NetworkClass `toml:"network"`
}

// NotificationsConfig contains push notification settings.
type NotificationsConfig struct {
	Enabled        bool   `toml:"enabled"`
	NtfyTopic      string `toml:"ntfy_topic"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Interval returns the polling interval as a [time.Duration].
func (p PollingConfig) Interval() time.Duration {
	if p.IntervalMinutes <= 0 {
		return 90 * time.Minute
	}
	return time.Duration(p.IntervalMinutes) * time.Minute
}

// MaxReleaseAge returns the maximum age a release may have to still notify.
func (p PollingConfig) MaxReleaseAge() time.Duration {
	weeks := p.MaxReleaseAgeWeeks
	if weeks <= 0 {
		weeks = 4
	}
	return time.Duration(weeks) * 7 * 24 * time.Hour
}

// StartupDelay returns the optional delay applied before the first poll of a run.
func (p PollingConfig) StartupDelay() time.Duration {
	if p.StartupDelaySeconds <= 0 {
		return 0
	}
	return time.Duration(p.StartupDelaySeconds) * time.Second
}

// Validate checks configuration invariants that cannot be expressed in TOML.
func (c *Config) Validate() error {
	switch c.Polling.Network {
	case "", NetworkAny, NetworkUnmetered, NetworkMetered:
	default:
		return fmt.Errorf("%w: unknown network class %q", ErrInvalidConfig, c.Polling.Network)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database path is required", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
