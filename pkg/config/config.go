package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override,
// e.g. VATSIM_ONLINE_MONITOR_VIEW_DISTANCE_NM.
const EnvPrefix = "VATSIM_ONLINE"

// Supported renderers.
const (
	RendererBubbletea = "bubbletea"
	RendererTview     = "tview"
)

// Config represents the complete application configuration.
// Values come from defaults, then an optional config file, then the environment.
type Config struct {
	Monitor  MonitorConfig  `json:"monitor" mapstructure:"monitor"`
	VATSIM   VATSIMConfig   `json:"vatsim" mapstructure:"vatsim"`
	Database DatabaseConfig `json:"database" mapstructure:"database"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
	UI       UIConfig       `json:"ui" mapstructure:"ui"`
}

// MonitorConfig controls what is shown and how often it is refreshed.
type MonitorConfig struct {
	// Airport is the default airport identifier when none is given on the command line
	Airport string `json:"airport" mapstructure:"airport"`

	// ViewDistanceNM is the radius around the airport in nautical miles
	ViewDistanceNM float64 `json:"view_distance_nm" mapstructure:"view_distance_nm"`

	// RefreshIntervalSeconds is the time between refresh cycles
	RefreshIntervalSeconds int `json:"refresh_interval_seconds" mapstructure:"refresh_interval_seconds"`

	// MaxConcurrentFetches bounds the number of ratings requests in flight during a cycle
	MaxConcurrentFetches int `json:"max_concurrent_fetches" mapstructure:"max_concurrent_fetches"`
}

// VATSIMConfig contains VATSIM API settings.
type VATSIMConfig struct {
	// StatusURL is the status document used to discover the live data feed
	StatusURL string `json:"status_url" mapstructure:"status_url"`

	// RatingsURL is the base of the ratings API
	RatingsURL string `json:"ratings_url" mapstructure:"ratings_url"`

	// StatsURL is the base of the member statistics web page opened with 'o'
	StatsURL string `json:"stats_url" mapstructure:"stats_url"`

	// UserAgent is sent with every request
	UserAgent string `json:"user_agent" mapstructure:"user_agent"`

	// TimeoutSeconds is the per-request timeout
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`

	// RatingsRequestsPerSecond limits the ratings API call rate
	// 0 = no rate limit
	RatingsRequestsPerSecond float64 `json:"ratings_requests_per_second" mapstructure:"ratings_requests_per_second"`

	// RatingsBurst is the number of ratings calls allowed back to back
	RatingsBurst int `json:"ratings_burst" mapstructure:"ratings_burst"`

	// ConnectRetries is how many times status discovery is retried at startup
	ConnectRetries int `json:"connect_retries" mapstructure:"connect_retries"`
}

// DatabaseConfig contains database connection settings for the optional
// NASR airport directory.
type DatabaseConfig struct {
	// Enabled determines if airports are looked up in the database before the built-in table
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// Host is the database server hostname
	Host string `json:"host" mapstructure:"host"`

	// Port is the database server port
	Port int `json:"port" mapstructure:"port"`

	// Database is the database name
	Database string `json:"database" mapstructure:"database"`

	// Username for database authentication
	Username string `json:"username" mapstructure:"username"`

	// Password for database authentication (should be loaded from environment)
	Password string `json:"password" mapstructure:"password"`

	// SSLMode for PostgreSQL connections (disable, require, verify-ca, verify-full)
	SSLMode string `json:"ssl_mode" mapstructure:"ssl_mode"`

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int `json:"max_open_conns" mapstructure:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int `json:"max_idle_conns" mapstructure:"max_idle_conns"`
}

// LoggingConfig controls the structured log file.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `json:"level" mapstructure:"level"`

	// File is the log file path. Empty means vatsim-online.slog in the user config directory.
	File string `json:"file" mapstructure:"file"`

	// MaxSizeMB is the size at which the log file is rotated
	MaxSizeMB int `json:"max_size_mb" mapstructure:"max_size_mb"`

	// MaxBackups is the number of rotated files kept
	MaxBackups int `json:"max_backups" mapstructure:"max_backups"`
}

// UIConfig selects the terminal renderer.
type UIConfig struct {
	// Renderer is "bubbletea" or "tview"
	Renderer string `json:"renderer" mapstructure:"renderer"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Monitor: MonitorConfig{
			ViewDistanceNM:         20.0,
			RefreshIntervalSeconds: 15,
			MaxConcurrentFetches:   8,
		},
		VATSIM: VATSIMConfig{
			StatusURL:                "https://status.vatsim.net/status.json",
			RatingsURL:               "https://api.vatsim.net/api/ratings",
			StatsURL:                 "https://stats.vatsim.net/stats",
			UserAgent:                "github.com/unklstewy/vatsim-online",
			TimeoutSeconds:           10,
			RatingsRequestsPerSecond: 5.0,
			RatingsBurst:             5,
			ConnectRetries:           3,
		},
		Database: DatabaseConfig{
			Enabled:      false,
			Host:         "localhost",
			Port:         5432,
			Database:     "nasr",
			Username:     "nasr",
			SSLMode:      "disable",
			MaxOpenConns: 4,
			MaxIdleConns: 2,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		UI: UIConfig{
			Renderer: RendererBubbletea,
		},
	}
}

// Load reads configuration from a JSON, YAML or TOML file and applies
// VATSIM_ONLINE_* environment overrides. An empty path, or a path that does
// not exist, yields the defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := NewViper()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	return Decode(v)
}

// NewViper returns a viper instance holding every default and bound to the
// environment. Command line flags may be bound to it before Decode.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Decode unmarshals v into a Config.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// LoadDotEnv loads environment variables from the given .env files (default
// ".env" in the working directory). Missing files are ignored and variables
// already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// setDefaults registers every field of cfg with v, so that AutomaticEnv can
// override keys that never appear in a config file.
func setDefaults(v *viper.Viper, cfg *Config) {
	data, _ := json.Marshal(cfg)
	var m map[string]any
	_ = json.Unmarshal(data, &m)
	for section, fields := range m {
		for key, val := range fields.(map[string]any) {
			v.SetDefault(section+"."+key, val)
		}
	}
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Monitor.ViewDistanceNM <= 0 {
		return fmt.Errorf("monitor.view_distance_nm must be positive, got %v", c.Monitor.ViewDistanceNM)
	}
	if c.Monitor.RefreshIntervalSeconds < 1 {
		return fmt.Errorf("monitor.refresh_interval_seconds must be at least 1, got %d", c.Monitor.RefreshIntervalSeconds)
	}
	if c.Monitor.MaxConcurrentFetches < 1 {
		return fmt.Errorf("monitor.max_concurrent_fetches must be at least 1, got %d", c.Monitor.MaxConcurrentFetches)
	}
	if c.VATSIM.TimeoutSeconds < 1 {
		return fmt.Errorf("vatsim.timeout_seconds must be at least 1, got %d", c.VATSIM.TimeoutSeconds)
	}
	if c.VATSIM.RatingsRequestsPerSecond < 0 {
		return fmt.Errorf("vatsim.ratings_requests_per_second must not be negative, got %v", c.VATSIM.RatingsRequestsPerSecond)
	}
	if c.VATSIM.ConnectRetries < 0 {
		return fmt.Errorf("vatsim.connect_retries must not be negative, got %d", c.VATSIM.ConnectRetries)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	switch c.UI.Renderer {
	case RendererBubbletea, RendererTview:
	default:
		return fmt.Errorf("ui.renderer must be %q or %q, got %q", RendererBubbletea, RendererTview, c.UI.Renderer)
	}
	return nil
}

// RefreshInterval returns the refresh period as a duration.
func (c *MonitorConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// Timeout returns the per-request timeout as a duration.
func (c *VATSIMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SlogLevel parses Level.
func (c *LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

// DSN returns the lib/pq connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode)
}
