// mkicon generates the chat-window extension icon: icon.svg plus
// icon16.png, icon48.png and icon128.png.
// Usage: go run ./cmd/mkicon [options]
package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"golang.org/x/term"

	"github.com/Mavwarf/chaticon/internal/config"
	"github.com/Mavwarf/chaticon/internal/eventlog"
	"github.com/Mavwarf/chaticon/internal/paths"
	"github.com/Mavwarf/chaticon/internal/raster"
	"github.com/Mavwarf/chaticon/internal/runner"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// cliOptions holds flag values. Zero values mean "not given".
type cliOptions struct {
	configPath  string
	outDir      string
	engine      string
	supersample int
	log         bool
}

func main() {
	opts, rest, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Run 'mkicon help' for usage.\n")
		os.Exit(1)
	}

	cmd := ""
	if len(rest) > 0 {
		cmd = rest[0]
	}
	switch cmd {
	case "", "generate":
		generate(opts)
	case "history":
		showHistory(opts, rest[1:])
	case "help", "-h", "--help":
		printUsage()
	case "version", "-V", "--version":
		printVersion()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", cmd)
		fmt.Fprintf(os.Stderr, "Run 'mkicon help' for usage.\n")
		os.Exit(1)
	}
}

// parseArgs extracts options from args and returns the remaining
// positional arguments.
func parseArgs(args []string) (cliOptions, []string, error) {
	var opts cliOptions
	var rest []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--out", "-o":
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("--out requires a directory")
			}
			opts.outDir = args[i+1]
			i++
		case "--engine", "-e":
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("--engine requires a name (%v)", raster.Engines())
			}
			opts.engine = args[i+1]
			i++
		case "--config", "-c":
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("--config requires a file path")
			}
			opts.configPath = args[i+1]
			i++
		case "--supersample", "-s":
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("--supersample requires a value (1-%d)", config.MaxSupersample)
			}
			v, err := strconv.Atoi(args[i+1])
			if err != nil || v < 1 || v > config.MaxSupersample {
				return opts, nil, fmt.Errorf("supersample must be a number between 1 and %d", config.MaxSupersample)
			}
			opts.supersample = v
			i++
		case "--log":
			opts.log = true
		default:
			rest = append(rest, args[i])
		}
	}
	return opts, rest, nil
}

// applyOverrides lets CLI flags take priority over the config file.
func applyOverrides(cfg config.Config, opts cliOptions) config.Config {
	if opts.outDir != "" {
		cfg.OutputDir = opts.outDir
	}
	if opts.engine != "" {
		cfg.Engine = opts.engine
	}
	if opts.supersample > 0 {
		cfg.Supersample = opts.supersample
	}
	if opts.log {
		cfg.Log = true
	}
	return cfg
}

// markersFor picks emoji markers for interactive terminals and plain text
// otherwise, so piped output stays greppable.
func markersFor(interactive bool) runner.Markers {
	if interactive {
		return runner.GlyphMarkers
	}
	return runner.PlainMarkers
}

func loadConfig(opts cliOptions) config.Config {
	cfg, _, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg = applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func generate(opts cliOptions) {
	cfg := loadConfig(opts)

	capability, err := raster.Detect(cfg.Engine, cfg.Supersample)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !capability.Available() {
		fmt.Fprintf(os.Stderr, "warning: %v\n", capability.Err)
		fmt.Fprintf(os.Stderr, "warning: PNG icons will not be created; writing icon.svg only\n")
	}

	fmt.Printf("Generating chat window icons (engine: %s)\n", capability.Name())
	report, err := runner.Run(runner.Options{
		OutputDir:  cfg.OutputDir,
		Capability: capability,
		Markers:    markersFor(term.IsTerminal(int(os.Stdout.Fd()))),
	}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Log {
		recordHistory(cfg, report)
	}

	written := len(report.Results) - report.Failed()
	fmt.Printf("\n%d of %d PNG icons written to %s\n", written, len(report.Results), cfg.OutputDir)
}

// recordHistory appends the run to the history store. Best-effort: errors
// are printed but never change the exit status.
func recordHistory(cfg config.Config, report runner.Report) {
	store, err := eventlog.Open(cfg.Storage, paths.DataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "eventlog: %v\n", err)
		return
	}
	defer store.Close()
	if err := store.LogRun(report.History()); err != nil {
		fmt.Fprintf(os.Stderr, "eventlog: %v\n", err)
	}
}

func showHistory(opts cliOptions, args []string) {
	cfg := loadConfig(opts)

	limit := 10
	if len(args) > 0 {
		if args[0] == "clear" {
			clearHistory(cfg)
			return
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			fmt.Fprintf(os.Stderr, "Error: history count must be a non-negative number\n")
			os.Exit(1)
		}
		limit = n
	}

	store, err := eventlog.Open(cfg.Storage, paths.DataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	runs, err := store.Runs(limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Printf("No runs recorded in %s\n", store.Path())
		return
	}
	for _, r := range runs {
		fmt.Print(formatRun(r))
	}
}

func clearHistory(cfg config.Config) {
	store, err := eventlog.Open(cfg.Storage, paths.DataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	if err := store.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Cleared %s\n", store.Path())
}

// formatRun renders one history entry as a summary line plus one line per
// failed target.
func formatRun(r eventlog.Run) string {
	s := fmt.Sprintf("%s  %-12s  %d/%d PNG  %s\n",
		r.Time.Local().Format("2006-01-02 15:04:05"), r.Engine, r.Succeeded(), len(r.Targets), r.Vector)
	for _, t := range r.Targets {
		if !t.OK() {
			s += fmt.Sprintf("    %dpx failed: %s\n", t.Size, t.Error)
		}
	}
	return s
}

func printVersion() {
	fmt.Printf("mkicon %s (%s) %s/%s\n", version, buildDate, runtime.GOOS, runtime.GOARCH)
}

func printUsage() {
	fmt.Printf("mkicon %s - Generate the chat window extension icons\n", version)
	fmt.Println(`
Usage:
  mkicon [options]
  mkicon history [count|clear]

Options:
  --out, -o <dir>          Output directory (default: icons)
  --engine, -e <name>      Rasterizer: oksvg, inkscape, rsvg-convert, none
                           (default: oksvg, built in)
  --supersample, -s <1-8>  Draw oksvg icons larger and scale down (default: 1)
  --config, -c <path>      Path to chaticon-config.json
  --log                    Record the run in the history log

Commands:
  history [count]          Show recent runs (default: 10)
  history clear            Delete the history
  version, -V              Show version and build date
  help, -h, --help         Show this help message

Output:
  icon.svg                 Vector source, always written
  icon16.png               16x16, transparent background
  icon48.png               48x48
  icon128.png              128x128

Config resolution:
  1. --config <path>                         (explicit)
  2. chaticon-config.json next to binary     (portable)
  3. ~/.config/chaticon/chaticon-config.json (user default)
  Built-in defaults apply when none is found.`)
}
