package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the collector configuration
type Config struct {
	LogLevel      string `yaml:"logLevel"`
	Listen        string `yaml:"listen"`
	DBPath        string `yaml:"dbPath"`
	RetentionDays int    `yaml:"retentionDays"`
}

// SlogLevel maps the configured level name onto a slog level, defaulting to
// info for unknown names.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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

// LoadConfig reads and validates the yaml configuration. An empty path
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	var config Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading configuration file: %w", err)
		}
		if err = yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parsing configuration file: %w", err)
		}
	}

	if config.Listen == "" {
		config.Listen = ":8080"
	}
	if config.DBPath == "" {
		config.DBPath = "lorawatch.sqlite"
	}
	if config.RetentionDays == 0 {
		config.RetentionDays = 365
	}
	if config.RetentionDays < 0 {
		return nil, fmt.Errorf("retentionDays must be positive, got %d", config.RetentionDays)
	}

	return &config, nil
}
