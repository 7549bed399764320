package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "--version", "version":
		fmt.Fprintln(stdout, "lua-chunks", version)
		return 0
	case "extract":
		return runExtract(args[1:], stdout, stderr)
	case "serve":
		return runServe(args[1:], stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `lua-chunks %s

Usage:
  lua-chunks extract [flags] <file-or-dir>   extract function chunks and write a report
  lua-chunks serve [flags]                   run the MCP tool server on stdio
  lua-chunks --version

Run "lua-chunks <command> -h" for command flags.
`, version)
}

// setupLogging installs a text handler on w at level.
func setupLogging(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
