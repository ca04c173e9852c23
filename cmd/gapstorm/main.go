// Package main is the entry point for the gapstorm editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/gapstorm/internal/app"
	"github.com/dshills/gapstorm/internal/config"
	"github.com/dshills/gapstorm/internal/renderer/backend"
	"github.com/dshills/gapstorm/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	app.Options
	LogLevel string
	Script   string
	Output   string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.NewLoader().Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	logger, closer, err := app.OpenLogger(cfg.Logging, opts.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()
	opts.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.Script != "" {
		return runScript(ctx, cfg, opts)
	}

	// stderr belongs to the terminal while the editor runs
	if cfg.Logging.File == "" {
		logger.Disable()
	}
	return runEditor(ctx, cfg, opts)
}

func runEditor(ctx context.Context, cfg *config.Config, opts cliOptions) int {
	application, err := app.New(cfg, opts.Options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runScript runs a Lua script over the file without a terminal and writes
// the result to the output path, or stdout when none is given.
func runScript(ctx context.Context, cfg *config.Config, opts cliOptions) int {
	log := opts.Logger.WithComponent("script")

	var doc *app.Document
	if opts.File != "" {
		d, err := app.OpenDocument(opts.File, cfg, opts.ReadOnly)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		doc = d
	} else {
		doc = app.NewScratchDocument(cfg)
	}
	defer doc.Close()

	runner := script.New(doc.Engine, append(script.OptionsFromConfig(cfg.Script),
		script.WithOutput(os.Stderr))...)
	defer runner.Close()

	log.Debug("running %s over %q", opts.Script, doc.Name)
	if err := runner.RunFile(ctx, opts.Script); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.Output == "" {
		if _, err := doc.Engine.WriteTo(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}
	if err := doc.SaveAs(opts.Output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	log.Info("wrote %d runes to %s", doc.Engine.Len(), doc.Path)
	return 0
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&opts.Debug, "d", false, "Enable debug logging (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config")
	flag.StringVar(&opts.Script, "script", "", "Run a Lua script over the file without opening the editor")
	flag.StringVar(&opts.Script, "s", "", "Run a Lua script (shorthand)")
	flag.StringVar(&opts.Output, "o", "", "Write the script result to this file instead of stdout")
	flag.BoolVar(&opts.ReadOnly, "readonly", false, "Open the file in read-only mode")
	flag.BoolVar(&opts.ReadOnly, "R", false, "Open the file in read-only mode (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "gapstorm - a gap buffer text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: gapstorm [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  Ctrl-S save  Ctrl-Q quit  Ctrl-Z undo  Ctrl-Y redo\n")
		fmt.Fprintf(os.Stderr, "  Ctrl-R record macro  Ctrl-P replay macro\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  gapstorm                       Open a scratch buffer\n")
		fmt.Fprintf(os.Stderr, "  gapstorm notes.txt             Open a file\n")
		fmt.Fprintf(os.Stderr, "  gapstorm -R notes.txt          Open a file read-only\n")
		fmt.Fprintf(os.Stderr, "  gapstorm -s fix.lua in.txt     Print in.txt after running fix.lua\n")
		fmt.Fprintf(os.Stderr, "  gapstorm -s fix.lua -o out.txt in.txt\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("gapstorm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	switch flag.NArg() {
	case 0:
	case 1:
		opts.File = flag.Arg(0)
	default:
		fmt.Fprintf(os.Stderr, "Error: expected at most one file, got %d\n", flag.NArg())
		os.Exit(1)
	}

	return opts
}
