package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should yield defaults, got %v", err)
	}
	if cfg.Port != 8080 || cfg.Bind != "0.0.0.0" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Interval() != 2*time.Second {
		t.Fatalf("expected default interval 2s, got %v", cfg.Interval())
	}
	if cfg.ProcessLimit != 15 {
		t.Fatalf("expected default process limit 15, got %d", cfg.ProcessLimit)
	}
	if len(cfg.TempBreakpoints) != 3 || cfg.TempBreakpoints[0] != 45 {
		t.Fatalf("unexpected default breakpoints: %v", cfg.TempBreakpoints)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	data := `
bind: 127.0.0.1
port: 9090
token: secret
interval_seconds: 5
process_limit: 5
temp_breakpoints: [50, 65, 75]
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bind != "127.0.0.1" || cfg.Port != 9090 || cfg.Token != "secret" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Interval() != 5*time.Second || cfg.ProcessLimit != 5 {
		t.Fatalf("unexpected sampling config: %+v", cfg)
	}
	if len(cfg.TempBreakpoints) != 3 || cfg.TempBreakpoints[2] != 75 {
		t.Fatalf("unexpected breakpoints: %v", cfg.TempBreakpoints)
	}
}

func TestLoadConfigBackfillsZeroValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	if err := os.WriteFile(path, []byte("token: abc\nport: 0\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8080 || cfg.IntervalSeconds != 2 || cfg.ProcessLimit != 15 {
		t.Fatalf("zero values not backfilled: %+v", cfg)
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	if err := os.WriteFile(path, []byte("port: [not a port\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatal("expected a parse error")
	}
}
