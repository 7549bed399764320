// Package config loads .luachunks.yaml run settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/DeusData/lua-chunks/internal/chunk"
	"github.com/DeusData/lua-chunks/internal/discover"
	"github.com/DeusData/lua-chunks/internal/report"
)

// FileName is the config file looked up in the extraction root.
const FileName = ".luachunks.yaml"

// Config holds user-overridable extraction settings.
type Config struct {
	// Ignore are doublestar globs excluded from discovery, in addition to
	// the built-in ignored directories.
	Ignore []string `yaml:"ignore"`

	// Workers bounds concurrent files. 0 means one per CPU.
	Workers int `yaml:"workers"`

	// FileTimeout is a Go duration string bounding each file. Empty or "0"
	// means no deadline.
	FileTimeout string `yaml:"file_timeout"`

	// StrictSyntax fails files whose tree contains syntax errors.
	StrictSyntax bool `yaml:"strict_syntax"`

	// CachePath is the SQLite chunk cache. Empty disables caching.
	CachePath string `yaml:"cache_path"`

	Output OutputConfig `yaml:"output"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// OutputConfig selects the report writer.
type OutputConfig struct {
	Format string `yaml:"format"`
	// Path is the report destination. Empty means stdout.
	Path string `yaml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Output:   OutputConfig{Format: report.FormatText},
		LogLevel: "info",
	}
}

// LoadConfig reads FileName from dir. A missing file yields defaults.
func LoadConfig(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Load reads the config file at path. Unset keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	switch c.Format() {
	case report.FormatText, report.FormatJSON, report.FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Format returns the normalized output format, defaulting to text.
func (c *Config) Format() string {
	f := strings.ToLower(strings.TrimSpace(c.Output.Format))
	if f == "" {
		return report.FormatText
	}
	return f
}

// Timeout parses FileTimeout.
func (c *Config) Timeout() (time.Duration, error) {
	if c.FileTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.FileTimeout)
	if err != nil {
		return 0, fmt.Errorf("file_timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("file_timeout must be >= 0, got %s", d)
	}
	return d, nil
}

// Level parses LogLevel into a slog level.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	name := c.LogLevel
	if name == "" {
		name = "info"
	}
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// DiscoverOptions returns the traversal settings.
func (c *Config) DiscoverOptions() *discover.Options {
	return &discover.Options{Ignore: append([]string(nil), c.Ignore...)}
}

// ExtractOptions maps the config onto extractor options. The cache is left
// for the caller to attach.
func (c *Config) ExtractOptions() (chunk.Options, error) {
	timeout, err := c.Timeout()
	if err != nil {
		return chunk.Options{}, err
	}
	return chunk.Options{
		Workers:      c.Workers,
		FileTimeout:  timeout,
		StrictSyntax: c.StrictSyntax,
		Discover:     c.DiscoverOptions(),
	}, nil
}
