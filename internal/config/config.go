// Package config loads application settings from an optional YAML file and
// QUAKE_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
)

// Config holds the full application configuration.
type Config struct {
	Feed    FeedConfig    `yaml:"feed" mapstructure:"feed"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Basemap BasemapConfig `yaml:"basemap" mapstructure:"basemap"`
	Filter  FilterConfig  `yaml:"filter" mapstructure:"filter"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// FeedConfig configures the USGS client.
type FeedConfig struct {
	SummaryURL string        `yaml:"summary_url" mapstructure:"summary_url"`
	QueryURL   string        `yaml:"query_url" mapstructure:"query_url"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent  string        `yaml:"user_agent" mapstructure:"user_agent"`
	RateLimit  float64       `yaml:"rate_limit" mapstructure:"rate_limit"`
	Burst      int           `yaml:"burst" mapstructure:"burst"`
}

// StoreConfig locates the local sqlite database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// BasemapConfig controls land outline provisioning.
type BasemapConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	SourceURL string `yaml:"source_url" mapstructure:"source_url"`
}

// FilterConfig is the filter applied at startup.
type FilterConfig struct {
	Feed         string  `yaml:"feed" mapstructure:"feed"`
	MinMagnitude float64 `yaml:"min_magnitude" mapstructure:"min_magnitude"`
	MaxMagnitude float64 `yaml:"max_magnitude" mapstructure:"max_magnitude"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	File   string `yaml:"file" mapstructure:"file"` // empty logs to stderr
}

// MetricsConfig configures the optional Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"` // empty disables the server
}

// Load reads configuration from file and environment. An explicit path must
// exist; otherwise earthquake-visualizer.yaml is looked up in the working
// directory and ~/.config/earthquake-visualizer and may be absent.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("earthquake-visualizer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "earthquake-visualizer"))
		}
	}

	// Environment
	v.SetEnvPrefix("QUAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("feed.summary_url", "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary")
	v.SetDefault("feed.query_url", "https://earthquake.usgs.gov/fdsnws/event/1/query")
	v.SetDefault("feed.timeout", 30*time.Second)
	v.SetDefault("feed.user_agent", "EarthquakeVisualizer/1.0 (github.com/SridharX3/Earthquake-Visualizer)")
	v.SetDefault("feed.rate_limit", 2.0)
	v.SetDefault("feed.burst", 2)
	v.SetDefault("store.path", "data/earthquake-visualizer.db")
	v.SetDefault("basemap.enabled", true)
	v.SetDefault("basemap.source_url", "https://naciscdn.org/naturalearth/110m/physical/ne_110m_land.zip")
	v.SetDefault("filter.feed", string(models.FeedAllDay))
	v.SetDefault("filter.min_magnitude", models.DefaultMinMagnitude)
	v.SetDefault("filter.max_magnitude", models.DefaultMaxMagnitude)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("metrics.addr", "")

	// Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if c.Feed.Timeout <= 0 {
		return eris.Errorf("config: feed.timeout must be positive, got %s", c.Feed.Timeout)
	}
	if c.Feed.RateLimit < 0 {
		return eris.Errorf("config: feed.rate_limit must not be negative, got %v", c.Feed.RateLimit)
	}
	if c.Feed.SummaryURL == "" || c.Feed.QueryURL == "" {
		return eris.New("config: feed.summary_url and feed.query_url are required")
	}
	if _, err := models.ParseFeedType(c.Filter.Feed); err != nil {
		return eris.Wrap(err, "config: filter.feed")
	}
	if c.Filter.MinMagnitude > c.Filter.MaxMagnitude {
		return eris.Errorf("config: filter.min_magnitude %v exceeds filter.max_magnitude %v",
			c.Filter.MinMagnitude, c.Filter.MaxMagnitude)
	}
	return nil
}

// InitialFilter builds the startup filter relative to now.
func (c *Config) InitialFilter(now time.Time) models.Filter {
	f := models.DefaultFilter(now).WithMagnitude(c.Filter.MinMagnitude, c.Filter.MaxMagnitude)
	// Validate already checked the feed name
	feed, _ := models.ParseFeedType(c.Filter.Feed)
	return f.WithFeed(feed)
}

// NewLogger builds a zap logger from cfg. When cfg.File is set, output goes
// to that file, whose directory is created if needed.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, eris.Wrap(err, "config: create log directory")
		}
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}

	return logger, nil
}
