// Package config loads a simulation profile from YAML: the bot identity the
// engine impersonates, log verbosity, and the initial clock instant.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Bot       BotConfig `yaml:"bot"`
	LogLevel  string    `yaml:"log_level"`
	StartTime string    `yaml:"start_time"`
	SendRate  float64   `yaml:"send_rate"`
	SendBurst int       `yaml:"send_burst"`
}

type BotConfig struct {
	ID        int64  `yaml:"id"`
	Username  string `yaml:"username"`
	FirstName string `yaml:"first_name"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Bot.ID == 0 {
		cfg.Bot.ID = 1
	}
	if cfg.Bot.FirstName == "" {
		cfg.Bot.FirstName = "Simulated Bot"
	}

	return &cfg, nil
}

// Start parses the configured start_time. An empty value reports ok=false so
// the engine default applies.
func (c *Config) Start() (time.Time, bool, error) {
	if c.StartTime == "" {
		return time.Time{}, false, nil
	}
	start, err := time.Parse(time.RFC3339, c.StartTime)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse start_time: %w", err)
	}

	return start, true, nil
}

// Level maps the configured log level onto slog's scale.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
