package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFromBytes(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.ListenAddr != ":9100" {
		t.Errorf("ListenAddr = %q, want :9100 default", cfg.Server.ListenAddr)
	}
	if cfg.Collection.Interval.Duration != 5*time.Second {
		t.Errorf("Interval = %v, want 5s default", cfg.Collection.Interval.Duration)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Level = %q, want info default", cfg.Logging.Level)
	}
}

func TestLoadFromBytes_ParsesYAML(t *testing.T) {
	data := []byte("server:\n  listen_addr: \":9200\"\ncollection:\n  interval: \"30s\"\nlogging:\n  level: \"debug\"")

	cfg, err := LoadFromBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.ListenAddr != ":9200" {
		t.Errorf("ListenAddr = %q, want :9200", cfg.Server.ListenAddr)
	}
	if cfg.Collection.Interval.Duration != 30*time.Second {
		t.Errorf("Interval = %v, want 30s", cfg.Collection.Interval.Duration)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadFromBytes_InvalidDuration(t *testing.T) {
	if _, err := LoadFromBytes([]byte("collection:\n  interval: \"sometimes\"")); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VX_LISTEN_ADDR", ":9300")
	t.Setenv("VX_SCRAPE_INTERVAL", "2s")
	embedded := []byte("server:\n  listen_addr: \":9200\"")

	cfg, err := LoadFromBytes(embedded)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.ListenAddr != ":9300" {
		t.Errorf("ListenAddr = %q, want env override", cfg.Server.ListenAddr)
	}
	if cfg.Collection.Interval.Duration != 2*time.Second {
		t.Errorf("Interval = %v, want env override", cfg.Collection.Interval.Duration)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.ListenAddr != ":9100" {
		t.Errorf("ListenAddr = %q, want default", cfg.Server.ListenAddr)
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exporter.yaml")
	if err := os.WriteFile(path, []byte("collection:\n  interval: \"1m\""), 0640); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Collection.Interval.Duration != time.Minute {
		t.Errorf("Interval = %v, want 1m from file", cfg.Collection.Interval.Duration)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}

	cfg.Server.ListenAddr = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty listen address")
	}

	cfg = DefaultConfig()
	cfg.Collection.Interval = Duration{0}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero interval")
	}
}
