// Package main is the entry point for the textcore command. It loads a
// document into an engine, optionally applies an edit script and reports
// document and cache statistics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/config/watcher"
	"github.com/dshills/textcore/internal/diag"
	"github.com/dshills/textcore/internal/engine"
	"github.com/dshills/textcore/internal/engine/textmodel"
	"github.com/dshills/textcore/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// configEnv names the environment variable holding the config file path.
const configEnv = "TEXTCORE_CONFIG"

type options struct {
	ConfigPath string
	LogLevel   string
	ScriptPath string
	OutputPath string
	Ending     string
	ReadOnly   bool
	Print      bool
	Watch      bool
	File       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.LoadFile(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	logger := diag.New(diag.Config{
		Level:  cfg.LogLevel(),
		Output: os.Stderr,
		Prefix: "textcore",
	})

	eng, err := openEngine(opts, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open %s: %v\n", opts.File, err)
		return 1
	}
	defer eng.Close()

	if opts.ScriptPath != "" {
		if err := runScriptFile(eng, opts.ScriptPath, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if err := writeOutput(eng, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write output: %v\n", err)
		return 1
	}

	printStats(os.Stderr, eng)

	if opts.Watch && opts.ConfigPath != "" {
		return watch(eng, opts.ConfigPath, logger)
	}
	return 0
}

func openEngine(opts options, cfg config.Config, logger *diag.Logger) (*engine.Engine, error) {
	engineOpts := []engine.Option{
		engine.WithConfig(cfg),
		engine.WithLogger(logger),
	}
	if opts.ReadOnly {
		engineOpts = append(engineOpts, engine.WithReadOnly())
	}

	if opts.File == "" {
		return engine.New(engineOpts...), nil
	}

	f, err := os.Open(opts.File)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("%s does not exist, starting empty", opts.File)
			return engine.New(engineOpts...), nil
		}
		return nil, err
	}
	defer f.Close()
	return engine.NewFromReader(f, engineOpts...)
}

func runScriptFile(eng *engine.Engine, path string, logger *diag.Logger) error {
	runner, err := script.NewRunner(eng, script.WithLogger(logger.WithComponent("script")))
	if err != nil {
		return err
	}

	n, err := runner.RunFile(context.Background(), path)
	logger.Info("applied %d script edits", n)
	return err
}

func writeOutput(eng *engine.Engine, opts options) error {
	var w io.Writer
	switch {
	case opts.OutputPath != "":
		f, err := os.Create(opts.OutputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	case opts.Print:
		w = os.Stdout
	default:
		return nil
	}

	if opts.Ending == "" {
		_, err := eng.WriteTo(w)
		return err
	}
	le, _ := textmodel.ParseLineEnding(opts.Ending)
	_, err := io.WriteString(w, eng.Model().Text(le))
	return err
}

func printStats(w io.Writer, eng *engine.Engine) {
	s := eng.Stats()
	c := eng.Cursor()
	fmt.Fprintf(w, "lines:      %d\n", s.Lines)
	fmt.Fprintf(w, "characters: %d\n", s.Length)
	fmt.Fprintf(w, "revision:   %d\n", s.Revision)
	fmt.Fprintf(w, "cursor:     %s\n", c)
	fmt.Fprintf(w, "indexer:    %d hits, %d misses, %d cached\n",
		s.Indexer.Hits, s.Indexer.Misses, s.Indexer.Size)
	if eng.Config().Measure.MaxOffset {
		fmt.Fprintf(w, "max width:  %.1f\n", s.MaxOffset)
	}
}

// watch applies config file changes until interrupted.
func watch(eng *engine.Engine, path string, logger *diag.Logger) int {
	w, err := watcher.New(path, func(cfg config.Config) {
		if err := eng.ApplyConfig(cfg); err != nil {
			logger.Error("apply config: %v", err)
			return
		}
		printStats(os.Stderr, eng)
	}, watcher.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to watch %s: %v\n", path, err)
		return 1
	}
	defer w.Close()

	logger.Info("watching %s, press Ctrl-C to exit", w.Path())

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", os.Getenv(configEnv), "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.ConfigPath, "c", os.Getenv(configEnv), "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config")
	flag.StringVar(&opts.ScriptPath, "script", "", "Lua edit script to run")
	flag.StringVar(&opts.ScriptPath, "s", "", "Lua edit script to run (shorthand)")
	flag.StringVar(&opts.OutputPath, "o", "", "Write the resulting document to this file")
	flag.StringVar(&opts.Ending, "line-ending", "", "Line ending for output (lf, cr, crlf, native)")
	flag.BoolVar(&opts.Print, "print", false, "Print the resulting document to stdout")
	flag.BoolVar(&opts.ReadOnly, "readonly", false, "Reject edits")
	flag.BoolVar(&opts.ReadOnly, "R", false, "Reject edits (shorthand)")
	flag.BoolVar(&opts.Watch, "watch", false, "Keep running and apply config file changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "textcore - text model and measurement engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: textcore [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nScripts are Lua with two modules:\n")
		fmt.Fprintf(os.Stderr, "  buf     text len line line_count text_range position index\n")
		fmt.Fprintf(os.Stderr, "          insert append delete replace clear\n")
		fmt.Fprintf(os.Stderr, "  cursor  get set set_position selection set_selection selected_text\n")
		fmt.Fprintf(os.Stderr, "          line column move type backspace delete_forward cut\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  textcore file.txt                 Report statistics\n")
		fmt.Fprintf(os.Stderr, "  textcore -s edits.lua -o out.txt  Run an edit script\n")
		fmt.Fprintf(os.Stderr, "  textcore -c textcore.toml -watch  Follow config changes\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("textcore %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.LogLevel != "" {
		if _, ok := diag.ParseLevel(opts.LogLevel); !ok {
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
			os.Exit(1)
		}
	}
	if opts.Ending != "" {
		if _, ok := textmodel.ParseLineEnding(opts.Ending); !ok {
			fmt.Fprintf(os.Stderr, "Error: invalid line ending %q (must be lf, cr, crlf, or native)\n", opts.Ending)
			os.Exit(1)
		}
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: expected at most one file, got %d\n", flag.NArg())
		os.Exit(1)
	}
	opts.File = flag.Arg(0)

	return opts
}
