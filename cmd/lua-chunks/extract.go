package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/DeusData/lua-chunks/internal/chunk"
	"github.com/DeusData/lua-chunks/internal/config"
	"github.com/DeusData/lua-chunks/internal/report"
	"github.com/DeusData/lua-chunks/internal/store"
)

// extractFlags are the command-line overrides for extract.
type extractFlags struct {
	configPath string
	format     string
	out        string
	cache      string
	workers    int
	timeout    string
	strict     bool
	logLevel   string
}

func runExtract(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var f extractFlags
	fs.StringVar(&f.configPath, "config", "", "config file (default <root>/"+config.FileName+")")
	fs.StringVar(&f.format, "format", "", "report format: text, json or yaml")
	fs.StringVar(&f.out, "out", "", "report file (default stdout)")
	fs.StringVar(&f.cache, "cache", "", "SQLite chunk cache path")
	fs.IntVar(&f.workers, "workers", 0, "concurrent files (0 = one per CPU)")
	fs.StringVar(&f.timeout, "timeout", "", "per-file deadline, e.g. 5s")
	fs.BoolVar(&f.strict, "strict", false, "fail files containing syntax errors")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "extract: exactly one file or directory is required")
		return 2
	}
	root := fs.Arg(0)

	cfg, err := loadExtractConfig(fs, f, root)
	if err != nil {
		fmt.Fprintf(stderr, "extract: %v\n", err)
		return 2
	}
	level, _ := cfg.Level()
	setupLogging(stderr, level)

	opts, err := cfg.ExtractOptions()
	if err != nil {
		fmt.Fprintf(stderr, "extract: %v\n", err)
		return 2
	}
	if cfg.CachePath != "" {
		st, err := store.OpenPath(cfg.CachePath)
		if err != nil {
			fmt.Fprintf(stderr, "extract: cache: %v\n", err)
			return 1
		}
		defer st.Close()
		opts.Cache = st.Cache()
	}

	ex, err := chunk.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "extract: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := ex.Extract(ctx, root)
	if err != nil {
		fmt.Fprintf(stderr, "extract: %v\n", err)
		return 1
	}

	if err := writeReport(stdout, cfg, res); err != nil {
		fmt.Fprintf(stderr, "extract: write report: %v\n", err)
		return 1
	}
	return 0
}

// loadExtractConfig reads the config file and applies explicitly set flags.
func loadExtractConfig(fs *flag.FlagSet, f extractFlags, root string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if f.configPath != "" {
		cfg, err = config.Load(f.configPath)
	} else {
		dir := root
		if info, statErr := os.Stat(root); statErr == nil && !info.IsDir() {
			dir = filepath.Dir(root)
		}
		cfg, err = config.LoadConfig(dir)
	}
	if err != nil {
		return nil, err
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "format":
			cfg.Output.Format = f.format
		case "out":
			cfg.Output.Path = f.out
		case "cache":
			cfg.CachePath = f.cache
		case "workers":
			cfg.Workers = f.workers
		case "timeout":
			cfg.FileTimeout = f.timeout
		case "strict":
			cfg.StrictSyntax = f.strict
		case "log-level":
			cfg.LogLevel = f.logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeReport(stdout io.Writer, cfg *config.Config, res *chunk.DirectoryResult) error {
	if cfg.Output.Path == "" {
		return report.Write(stdout, cfg.Format(), res)
	}
	out, err := os.Create(cfg.Output.Path)
	if err != nil {
		return err
	}
	if err := report.Write(out, cfg.Format(), res); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
