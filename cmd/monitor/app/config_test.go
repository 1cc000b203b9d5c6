package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Sampler.Type != SamplerSim {
		t.Errorf("expected sim sampler by default, got %q", config.Sampler.Type)
	}
	if !strings.HasPrefix(config.Settings.DeviceID, "lorawatch-") {
		t.Errorf("expected generated device id, got %q", config.Settings.DeviceID)
	}
	if config.Scan.IntervalMs != 50 {
		t.Errorf("expected 50ms scan interval, got %d", config.Scan.IntervalMs)
	}
	if config.Input.DoubleClickWindowMs != 250 || config.Input.ResolveTimeoutMs != 350 {
		t.Errorf("unexpected click timings: %+v", config.Input)
	}
	if config.Upload.ConnectIntervalMs != 500 || config.Upload.MaxConnectAttempts != 30 {
		t.Errorf("unexpected connect budget: %+v", config.Upload)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
settings:
  logLevel: debug
  deviceID: bench-node
sampler:
  seed: 42
  defaultPresence: 0.1
  presence: [0.5, 0.2]
upload:
  endpoint: http://collector.local:8080/upload
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Settings.DeviceID != "bench-node" {
		t.Errorf("expected configured device id, got %q", config.Settings.DeviceID)
	}
	if config.Settings.SlogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", config.Settings.SlogLevel())
	}
	if config.Sampler.Seed != 42 || config.Sampler.DefaultPresence != 0.1 {
		t.Errorf("unexpected sampler config: %+v", config.Sampler)
	}
	if len(config.Sampler.Presence) != 2 || config.Sampler.Presence[0] != 0.5 {
		t.Errorf("unexpected presence list: %v", config.Sampler.Presence)
	}
	if config.Upload.Endpoint != "http://collector.local:8080/upload" {
		t.Errorf("unexpected endpoint: %q", config.Upload.Endpoint)
	}

	// Unset fields still get their defaults.
	if config.Upload.TimeoutSec != 10 {
		t.Errorf("expected default upload timeout, got %d", config.Upload.TimeoutSec)
	}
}

func TestLoadConfig_Rejects(t *testing.T) {
	write := func(data string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		return path
	}

	if _, err := LoadConfig(write("sampler:\n  type: hardware\n")); err == nil {
		t.Error("expected unknown sampler type rejected")
	}
	if _, err := LoadConfig(write("sampler:\n  presence: [0,0,0,0,0,0,0,0,0]\n")); err == nil {
		t.Error("expected oversized presence list rejected")
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected missing file to error")
	}
}
