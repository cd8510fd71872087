package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jgoulah/tempcompare/internal/series"
)

// Config holds the application configuration
type Config struct {
	BaselinePath string          `yaml:"baseline_path,omitempty"` // Baseline CSV (fallback: ta.csv)
	Encoding     string          `yaml:"encoding,omitempty"`      // Code page of input files (fallback: cp949)
	Columns      *series.Layout  `yaml:"columns,omitempty"`       // Column positions (fallback: date=0 tmin=2 tmax=3)
	LogLevel     string          `yaml:"log_level,omitempty"`
	Source       SourceConfig    `yaml:"source,omitempty"`
	MQTT         MQTTConfig      `yaml:"mqtt,omitempty"`
	Dashboard    DashboardConfig `yaml:"dashboard,omitempty"`
}

// SourceConfig describes where `fetch` downloads supplementary data from
type SourceConfig struct {
	URL     string        `yaml:"url,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// MQTTConfig holds broker settings for publishing comparisons
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`                 // e.g., "mqtt.local:1883"
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // e.g., "tempcompare"
}

// DashboardConfig holds HTTP dashboard settings
type DashboardConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Load reads the config file, then applies environment overrides.
// A .env file in the working directory is loaded first if present
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("ignoring .env file", "error", err)
	}

	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Missing config file means defaults
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.GetLayout().Validate(); err != nil {
		return nil, fmt.Errorf("invalid columns: %w", err)
	}

	return cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Starter returns a config with every default spelled out, the content
// written by `tempcompare init`
func Starter() *Config {
	layout := series.DefaultLayout
	return &Config{
		BaselinePath: "ta.csv",
		Encoding:     series.DefaultEncoding,
		Columns:      &layout,
		LogLevel:     "info",
		Source:       SourceConfig{Timeout: 30 * time.Second},
		MQTT: MQTTConfig{
			Broker:      "localhost:1883",
			TopicPrefix: "tempcompare",
		},
		Dashboard: DashboardConfig{Addr: ":8080"},
	}
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"TEMPCOMPARE_BASELINE":       &c.BaselinePath,
		"TEMPCOMPARE_ENCODING":       &c.Encoding,
		"TEMPCOMPARE_LOG_LEVEL":      &c.LogLevel,
		"TEMPCOMPARE_SOURCE_URL":     &c.Source.URL,
		"TEMPCOMPARE_MQTT_BROKER":    &c.MQTT.Broker,
		"TEMPCOMPARE_DASHBOARD_ADDR": &c.Dashboard.Addr,
	}
	for key, field := range overrides {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*field = v
		}
	}
}

// GetBaselinePath returns the baseline CSV path with a default of ta.csv
func (c *Config) GetBaselinePath() string {
	if c.BaselinePath == "" {
		return "ta.csv"
	}
	return c.BaselinePath
}

// GetEncoding returns the input code page, defaulting to cp949
func (c *Config) GetEncoding() string {
	if c.Encoding == "" {
		return series.DefaultEncoding
	}
	return c.Encoding
}

// GetLayout returns the configured column layout or the default one
func (c *Config) GetLayout() series.Layout {
	if c.Columns == nil {
		return series.DefaultLayout
	}
	return *c.Columns
}

// LoaderOptions bundles encoding and layout for the series loader
func (c *Config) LoaderOptions() series.Options {
	return series.Options{
		Encoding: c.GetEncoding(),
		Layout:   c.GetLayout(),
	}
}

// GetLogLevel returns the log level, defaulting to info
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// GetSourceTimeout returns the download timeout with a default of 30 seconds
func (c *Config) GetSourceTimeout() time.Duration {
	if c.Source.Timeout <= 0 {
		return 30 * time.Second
	}
	return c.Source.Timeout
}

// GetTopicPrefix returns the MQTT topic prefix, defaulting to tempcompare
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return "tempcompare"
	}
	return c.MQTT.TopicPrefix
}

// GetDashboardAddr returns the dashboard listen address, defaulting to :8080
func (c *Config) GetDashboardAddr() string {
	if c.Dashboard.Addr == "" {
		return ":8080"
	}
	return c.Dashboard.Addr
}
