package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DeusData/lua-chunks/internal/report"
)

func TestLoadConfigDefault(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Format() != report.FormatText {
		t.Errorf("expected default format text, got %s", cfg.Format())
	}
	if d, _ := cfg.Timeout(); d != 0 {
		t.Errorf("expected no default timeout, got %s", d)
	}
	if lvl, _ := cfg.Level(); lvl != slog.LevelInfo {
		t.Errorf("expected info level, got %s", lvl)
	}
	if cfg.StrictSyntax || cfg.CachePath != "" || cfg.Workers != 0 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
ignore:
  - "**/spec/**"
  - "*_test.lua"
workers: 3
file_timeout: 2s
strict_syntax: true
cache_path: /tmp/chunks.db
output:
  format: JSON
  path: out.json
log_level: debug
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Ignore) != 2 || cfg.Workers != 3 || !cfg.StrictSyntax {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Format() != report.FormatJSON || cfg.Output.Path != "out.json" {
		t.Errorf("output = %+v", cfg.Output)
	}
	if lvl, _ := cfg.Level(); lvl != slog.LevelDebug {
		t.Errorf("level = %s", lvl)
	}

	opts, err := cfg.ExtractOptions()
	if err != nil {
		t.Fatalf("ExtractOptions: %v", err)
	}
	if opts.FileTimeout != 2*time.Second || opts.Workers != 3 || !opts.StrictSyntax {
		t.Errorf("options = %+v", opts)
	}
	if opts.Discover == nil || len(opts.Discover.Ignore) != 2 {
		t.Errorf("discover options = %+v", opts.Discover)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("workers: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Workers != 1 || cfg.Format() != report.FormatText || cfg.LogLevel != "info" {
		t.Errorf("config = %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad_yaml", "workers: [unterminated\n"},
		{"negative_workers", "workers: -1\n"},
		{"bad_timeout", "file_timeout: soon\n"},
		{"negative_timeout", "file_timeout: -1s\n"},
		{"bad_format", "output:\n  format: xml\n"},
		{"bad_level", "log_level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}
