package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/lorawatch/lorawatch/internal/scan"
)

const SamplerSim = "sim"

// Config represents the monitor configuration
type Config struct {
	Settings Settings      `yaml:"settings"`
	Sampler  SamplerConfig `yaml:"sampler"`
	Scan     ScanConfig    `yaml:"scan"`
	Input    InputConfig   `yaml:"input"`
	Upload   UploadConfig  `yaml:"upload"`
	Display  DisplayConfig `yaml:"display"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
	DeviceID string `yaml:"deviceID"`
}

// SlogLevel maps the configured level name onto a slog level, defaulting to
// info for unknown names.
func (s Settings) SlogLevel() slog.Level {
	switch strings.ToLower(s.LogLevel) {
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

// SamplerConfig selects and parameterizes the channel-activity sampler.
// Presence holds per-channel detection probabilities for the simulator,
// indexed by channel.
type SamplerConfig struct {
	Type            string    `yaml:"type"`
	Seed            uint64    `yaml:"seed"`
	LatencyMs       int       `yaml:"latencyMs"`
	DefaultPresence float64   `yaml:"defaultPresence"`
	Presence        []float64 `yaml:"presence"`
}

// ScanConfig represents scan scheduler settings
type ScanConfig struct {
	IntervalMs int `yaml:"intervalMs"`
}

// InputConfig holds the two click timing constants. They are deliberately
// independent knobs.
type InputConfig struct {
	DoubleClickWindowMs int `yaml:"doubleClickWindowMs"`
	ResolveTimeoutMs    int `yaml:"resolveTimeoutMs"`
}

// UploadConfig represents collector upload settings. An empty endpoint
// disables uploads.
type UploadConfig struct {
	Endpoint           string `yaml:"endpoint"`
	ConnectIntervalMs  int    `yaml:"connectIntervalMs"`
	MaxConnectAttempts int    `yaml:"maxConnectAttempts"`
	TimeoutSec         int    `yaml:"timeoutSec"`
	ResultHoldMs       int    `yaml:"resultHoldMs"`
}

// DisplayConfig represents renderer settings
type DisplayConfig struct {
	RefreshMs int `yaml:"refreshMs"`
}

// LoadConfig reads and validates the yaml configuration. An empty path
// yields the defaults, so the monitor runs simulated out of the box.
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

	config.applyDefaults()

	if config.Sampler.Type != SamplerSim {
		return nil, fmt.Errorf("unknown sampler type '%s'", config.Sampler.Type)
	}
	if len(config.Sampler.Presence) > scan.NumChannels {
		return nil, fmt.Errorf("at most %d presence entries allowed, got %d", scan.NumChannels, len(config.Sampler.Presence))
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Settings.DeviceID == "" {
		c.Settings.DeviceID = "lorawatch-" + uuid.NewString()[:8]
	}
	if c.Sampler.Type == "" {
		c.Sampler.Type = SamplerSim
	}
	if c.Sampler.LatencyMs == 0 {
		c.Sampler.LatencyMs = 40
	}
	if c.Scan.IntervalMs == 0 {
		c.Scan.IntervalMs = 50
	}
	if c.Input.DoubleClickWindowMs == 0 {
		c.Input.DoubleClickWindowMs = 250
	}
	if c.Input.ResolveTimeoutMs == 0 {
		c.Input.ResolveTimeoutMs = 350
	}
	if c.Upload.ConnectIntervalMs == 0 {
		c.Upload.ConnectIntervalMs = 500
	}
	if c.Upload.MaxConnectAttempts == 0 {
		c.Upload.MaxConnectAttempts = 30
	}
	if c.Upload.TimeoutSec == 0 {
		c.Upload.TimeoutSec = 10
	}
	if c.Upload.ResultHoldMs == 0 {
		c.Upload.ResultHoldMs = 2000
	}
	if c.Display.RefreshMs == 0 {
		c.Display.RefreshMs = 100
	}
}

func (c *Config) scanInterval() time.Duration {
	return time.Duration(c.Scan.IntervalMs) * time.Millisecond
}
