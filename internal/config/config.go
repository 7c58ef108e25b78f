package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/carzl/leadradar/pkg/classify"
	"github.com/carzl/leadradar/pkg/ingest"
	"github.com/carzl/leadradar/pkg/score"
	"github.com/carzl/leadradar/pkg/trend"
)

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Classify ClassifyConfig `yaml:"classify"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Trend    TrendConfig    `yaml:"trend"`
	Sources  SourcesConfig  `yaml:"sources"`
	Alerts   AlertsConfig   `yaml:"alerts"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ScheduleConfig configures scan and trend evaluation intervals. Trend
// evaluation runs on a slower cadence than scanning.
type ScheduleConfig struct {
	ScanInterval  string `yaml:"scan_interval"`
	TrendInterval string `yaml:"trend_interval"`
}

// ParseScanInterval returns the scan interval as time.Duration.
func (s ScheduleConfig) ParseScanInterval() time.Duration {
	d, err := time.ParseDuration(s.ScanInterval)
	if err != nil {
		return time.Hour
	}
	return d
}

// ParseTrendInterval returns the trend interval as time.Duration.
func (s ScheduleConfig) ParseTrendInterval() time.Duration {
	d, err := time.ParseDuration(s.TrendInterval)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// ScoringConfig is the relevance scorer's keyword/weight catalog.
type ScoringConfig struct {
	Catalog score.Catalog `yaml:",inline"`
}

// ClassifyConfig configures the content classifier. Empty catalogs fall
// back to the built-in defaults.
type ClassifyConfig struct {
	MaturePolicy classify.MaturePolicy  `yaml:"mature_policy"`
	Signals      []classify.SignalGroup `yaml:"signals"`
	Overrides    []classify.Override    `yaml:"overrides"`
}

// PipelineConfig tunes run execution and velocity detection.
type PipelineConfig struct {
	Workers       int     `yaml:"workers"`
	JumpThreshold float64 `yaml:"jump_threshold"`
	RetentionDays int     `yaml:"retention_days"`
}

// Retention returns the seen-record retention window.
func (p PipelineConfig) Retention() time.Duration {
	days := p.RetentionDays
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

// TrendConfig configures longitudinal trend evaluation.
type TrendConfig struct {
	Window     int              `yaml:"window"`
	Thresholds trend.Thresholds `yaml:"thresholds"`
}

// SourcesConfig holds adapter configuration.
type SourcesConfig struct {
	// Inputs are JSON raw-item batch files written by external scrapers.
	Inputs []string  `yaml:"inputs"`
	RSS    RSSConfig `yaml:"rss"`
}

// RSSConfig for the built-in RSS adapter.
type RSSConfig struct {
	Enabled bool          `yaml:"enabled"`
	Feeds   []ingest.Feed `yaml:"feeds"`
	MaxAge  string        `yaml:"max_age"`
}

// ParseMaxAge returns the RSS entry age cutoff.
func (r RSSConfig) ParseMaxAge() time.Duration {
	d, err := time.ParseDuration(r.MaxAge)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// AlertsConfig configures alert destinations.
type AlertsConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack webhook alerts.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DiscordConfig for Discord webhook alerts.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook alerts.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./leadradar.db"},
		Schedule: ScheduleConfig{
			ScanInterval:  "1h",
			TrendInterval: "24h",
		},
		Scoring: ScoringConfig{Catalog: score.DefaultCatalog()},
		Classify: ClassifyConfig{
			MaturePolicy: classify.MatureOverride,
		},
		Pipeline: PipelineConfig{
			JumpThreshold: 1.5,
			RetentionDays: 7,
		},
		Trend: TrendConfig{
			Window:     7,
			Thresholds: trend.DefaultThresholds(),
		},
		Sources: SourcesConfig{
			RSS: RSSConfig{MaxAge: "24h"},
		},
		Alerts: AlertsConfig{},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LEADRADAR_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Slack.WebhookURL = v
		cfg.Alerts.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Discord.WebhookURL = v
		cfg.Alerts.Discord.Enabled = true
	}
	if v := os.Getenv("LEADRADAR_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Webhook.URL = v
		cfg.Alerts.Webhook.Enabled = true
	}
}
