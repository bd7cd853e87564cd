// # cmd/unrequire/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"unrequire/internal/config"
	"unrequire/internal/shared/observability"
)

var (
	configPath   = flag.String("config", "./unrequire.toml", "Path to config file")
	write        = flag.Bool("write", false, "Write transformed files in place (default is dry run)")
	strict       = flag.Bool("strict", false, "Abort a file on the first unclassifiable require call")
	exportsOnly  = flag.Bool("exports-only", false, "Report export shapes without rewriting anything")
	watch        = flag.Bool("watch", false, "Keep running and re-convert files as they change")
	trends       = flag.Bool("trends", false, "Print the run history trend report and exit")
	trendsSince  = flag.String("since", "", "Include runs at/after this timestamp (RFC3339 or YYYY-MM-DD, requires -trends)")
	trendsWindow = flag.String("trends-window", "24h", "Moving-window duration for trend averages (requires -trends)")
	ui           = flag.Bool("ui", false, "Enable terminal UI mode")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	version      = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("unrequire v%s\n", VERSION)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	if *ui {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
				if err == nil {
					output = f
				} else {
					fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config; a missing default config file falls back to defaults.
	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./unrequire.toml" && os.IsNotExist(err) {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	if *strict {
		cfg.Modes.Strict = true
	}
	if *exportsOnly {
		cfg.Modes.ExportsOnly = true
	}
	if flag.NArg() > 0 {
		cfg.Paths = flag.Args()
	}

	if *trends {
		if err := runTrends(cfg, *trendsSince, *trendsWindow, os.Stdout); err != nil {
			slog.Error("failed to build trend report", "error", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer shutdownTracing(ctx)

	app, err := NewApp(cfg, *write)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	summary, err := app.Run(ctx)
	if err != nil {
		slog.Error("conversion failed", "error", err)
		os.Exit(1)
	}

	if !*ui {
		app.PrintSummary(summary)
	}

	if !*watch && !*ui {
		if summary.Errors > 0 {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Watch mode
	if cfg.Observability.MetricsAddr != "" {
		obsServer := observability.NewServer(cfg.Observability.MetricsAddr)
		if err := obsServer.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		defer obsServer.Stop(ctx)
	}

	if err := app.StartWatcher(); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	if *ui {
		if err := app.RunUI(summary); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
	} else {
		// Block forever
		select {}
	}
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "unrequire", "unrequire.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "unrequire", "unrequire.log")
	}

	return "unrequire.log"
}
