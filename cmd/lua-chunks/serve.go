package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/lua-chunks/internal/config"
	"github.com/DeusData/lua-chunks/internal/store"
	"github.com/DeusData/lua-chunks/internal/tools"
	"github.com/DeusData/lua-chunks/internal/watcher"
)

func runServe(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (default ./"+config.FileName+")")
	cachePath := fs.String("cache", "", "SQLite chunk store (default ~/.cache/lua-chunks/chunks.db)")
	watchDir := fs.String("watch", "", "directory to extract on start and re-extract on change")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	var cfg *config.Config
	var err error
	switch {
	case *configPath != "":
		cfg, err = config.Load(*configPath)
	case *watchDir != "":
		cfg, err = config.LoadConfig(*watchDir)
	default:
		cfg, err = config.LoadConfig(".")
	}
	if err != nil {
		fmt.Fprintf(stderr, "serve: %v\n", err)
		return 2
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	level, err := cfg.Level()
	if err != nil {
		fmt.Fprintf(stderr, "serve: %v\n", err)
		return 2
	}
	// stdout carries the MCP protocol; logs go to stderr only.
	setupLogging(stderr, level)

	dbPath := *cachePath
	if dbPath == "" {
		dbPath = cfg.CachePath
	}
	var st *store.Store
	if dbPath != "" {
		st, err = store.OpenPath(dbPath)
	} else {
		st, err = store.Open()
	}
	if err != nil {
		slog.Error("store.open", "err", err)
		return 1
	}
	defer st.Close()

	opts, err := cfg.ExtractOptions()
	if err != nil {
		slog.Error("serve.config", "err", err)
		return 2
	}
	tools.Version = version
	srv, err := tools.NewServer(st, opts)
	if err != nil {
		slog.Error("serve.init", "err", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *watchDir != "" {
		if _, err := srv.Index(ctx, *watchDir); err != nil {
			slog.Error("serve.index", "root", *watchDir, "err", err)
			return 1
		}
		w := watcher.New(func(ctx context.Context, root string) error {
			_, err := srv.Index(ctx, root)
			return err
		}, watcher.Options{Discover: cfg.DiscoverOptions()}, *watchDir)
		go w.Run(ctx)
	}

	slog.Info("serve.start", "store", st.Path(), "watch", *watchDir)
	if err := srv.MCPServer().Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("serve.run", "err", err)
		return 1
	}
	return 0
}
