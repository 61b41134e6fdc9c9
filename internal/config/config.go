// Package config provides YAML-based configuration loading for Placetrack.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level Placetrack configuration, loaded from
// placetrack.yaml. Every field has a working default so the CLI runs with
// no config file at all.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Sweep    SweepConfig    `yaml:"sweep"`
	Notify   NotifyConfig   `yaml:"notify"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig selects the local store backend. SQLite is the default;
// a MySQL DSN can be configured for a shared install.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" (default) or "mysql"
	Path   string `yaml:"path"`   // sqlite file path
	DSN    string `yaml:"dsn"`    // mysql DSN, required when driver is mysql
}

// GeminiConfig holds extraction service settings.
type GeminiConfig struct {
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (g GeminiConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// SweepConfig controls the retry sweeper.
type SweepConfig struct {
	CooldownSeconds int    `yaml:"cooldown_seconds"` // pause between drives
	Schedule        string `yaml:"schedule"`         // optional 5-field cron expression for pt serve
}

// Cooldown returns the inter-drive cooldown as a duration.
func (s SweepConfig) Cooldown() time.Duration {
	return time.Duration(s.CooldownSeconds) * time.Second
}

// NotifyConfig configures round reminder delivery.
type NotifyConfig struct {
	Platform       string `yaml:"platform"` // "", "slack" or "discord"
	SlackToken     string `yaml:"slack_token"`
	SlackChannel   string `yaml:"slack_channel"`
	DiscordToken   string `yaml:"discord_token"`
	DiscordChannel string `yaml:"discord_channel"`
	ReminderHours  int    `yaml:"reminder_hours"` // how far ahead to announce rounds
}

// ReminderWindow returns the look-ahead window for reminders.
func (n NotifyConfig) ReminderWindow() time.Duration {
	return time.Duration(n.ReminderHours) * time.Hour
}

// LogConfig controls slog output. When File is empty, logs go to stderr
// only; otherwise text goes to stderr and JSON to the file.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Load reads a YAML config file from path. A missing file is not an error:
// defaults are returned, so a bare `pt` invocation works. A .env file in
// the working directory is loaded first so env overrides (like
// GEMINI_API_KEY) can live there.
func Load(path string) (*Config, error) {
	godotenv.Load()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := &Config{}
		cfg.applyDefaults()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DataDir returns the per-user directory for the database, API key file
// and logs.
func DataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, "placetrack")
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(DataDir(), "placetrack.db")
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if c.Gemini.TimeoutSeconds == 0 {
		c.Gemini.TimeoutSeconds = 30
	}
	if c.Sweep.CooldownSeconds == 0 {
		c.Sweep.CooldownSeconds = 2
	}
	if c.Notify.ReminderHours == 0 {
		c.Notify.ReminderHours = 24
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not supported (sqlite, mysql)", c.Database.Driver))
	}
	if c.Database.Driver == "mysql" && c.Database.DSN == "" {
		errs = append(errs, "database.dsn is required when driver is mysql")
	}
	switch c.Notify.Platform {
	case "", "slack", "discord":
	default:
		errs = append(errs, fmt.Sprintf("notify.platform %q is not supported (slack, discord)", c.Notify.Platform))
	}
	if c.Notify.Platform == "slack" && (c.Notify.SlackToken == "" || c.Notify.SlackChannel == "") {
		errs = append(errs, "notify.slack_token and notify.slack_channel are required for slack")
	}
	if c.Notify.Platform == "discord" && (c.Notify.DiscordToken == "" || c.Notify.DiscordChannel == "") {
		errs = append(errs, "notify.discord_token and notify.discord_channel are required for discord")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
