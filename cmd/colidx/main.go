// Package main is the entry point for colidx, which runs column mode
// operations over delimited text files.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/dshills/colstorm/internal/config"
	"github.com/dshills/colstorm/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Operations lists the accepted -op values.
var operations = []string{"columns", "sort", "unsort-check", "dedup", "align", "find", "highlight", "copy", "delete"}

// options holds the parsed command line.
type options struct {
	ConfigPath string
	Delimiter  string
	Quote      string
	Columns    string
	Op         string
	Desc       bool
	Find       string
	JSON       bool
	LogLevel   string
	Watch      bool
	Workers    int
	Files      []string

	// set records which flags were given explicitly.
	set map[string]bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	loader := config.NewLoader(opts.ConfigPath)
	settings, err := loader.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	settings = opts.apply(settings)
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := logging.New(settings.Logging.Level, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := processAll(ctx, opts, settings, logger, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if !opts.Watch {
		return 0
	}
	if err := watch(ctx, loader, opts, logger, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	var showVersion bool

	fs := flag.NewFlagSet("colidx", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.Delimiter, "d", ",", `Column delimiter (\t for tab)`)
	fs.StringVar(&opts.Quote, "q", `"`, `Quote character ("", " or ')`)
	fs.StringVar(&opts.Columns, "c", "1", "Columns, e.g. 1,3-4")
	fs.StringVar(&opts.Op, "op", "columns", "Operation: "+strings.Join(operations, ", "))
	fs.BoolVar(&opts.Desc, "desc", false, "Sort descending")
	fs.StringVar(&opts.Find, "find", "", "Regular expression for -op find")
	fs.BoolVar(&opts.JSON, "json", false, "Print one JSON object per file")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.Watch, "watch", false, "Re-run when the config file changes")
	fs.IntVar(&opts.Workers, "j", 4, "Files processed concurrently")
	fs.BoolVar(&showVersion, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "colidx - column mode operations on delimited text\n\n")
		fmt.Fprintf(stderr, "Usage: colidx [options] files...\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  colidx -c 2 -op sort data.csv         Sort by column 2\n")
		fmt.Fprintf(stderr, "  colidx -d '\\t' -op align data.tsv      Align tab separated columns\n")
		fmt.Fprintf(stderr, "  colidx -c 1,3 -op dedup -json a.csv    Report duplicate rows as JSON\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if showVersion {
		fmt.Fprintf(stderr, "colidx %s\nCommit: %s\nBuilt: %s\n", version, commit, date)
		return opts, flag.ErrHelp
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	if !slices.Contains(operations, opts.Op) {
		return opts, fmt.Errorf("invalid operation %q (must be one of %s)", opts.Op, strings.Join(operations, ", "))
	}
	if opts.Op == "find" && opts.Find == "" {
		return opts, errors.New("-op find requires -find")
	}
	if opts.Watch && opts.ConfigPath == "" {
		return opts, errors.New("-watch requires -config")
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	opts.Files = fs.Args()
	if len(opts.Files) == 0 {
		fs.Usage()
		return opts, errors.New("no input files")
	}
	return opts, nil
}

// apply overrides settings with the flags given explicitly.
func (o options) apply(s config.Settings) config.Settings {
	if o.set["d"] {
		s.Column.Delimiter = o.Delimiter
	}
	if o.set["q"] {
		s.Column.Quote = o.Quote
	}
	if o.set["c"] {
		s.Column.Columns = o.Columns
	}
	if o.set["log-level"] {
		s.Logging.Level = o.LogLevel
	}
	return s
}

// processAll runs the operation over every file concurrently and prints
// the reports in argument order.
func processAll(ctx context.Context, opts options, settings config.Settings, logger zerolog.Logger, stdout io.Writer) error {
	reports := make([]report, len(opts.Files))

	p := pool.New().WithMaxGoroutines(opts.Workers).WithContext(ctx)
	for i, path := range opts.Files {
		i, path := i, path
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := process(path, opts, settings, logger)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = r
			return nil
		})
	}
	err := p.Wait()

	var out bytes.Buffer
	for _, r := range reports {
		if r.file == "" {
			continue
		}
		if opts.JSON {
			out.WriteString(r.json)
			out.WriteByte('\n')
			continue
		}
		if len(opts.Files) > 1 {
			fmt.Fprintf(&out, "==> %s <==\n", r.file)
		}
		out.WriteString(r.text)
	}
	if _, werr := stdout.Write(out.Bytes()); werr != nil && err == nil {
		err = werr
	}
	return err
}

// watch re-runs the operation whenever the config file changes, until ctx
// is cancelled.
func watch(ctx context.Context, loader *config.Loader, opts options, logger zerolog.Logger, stdout io.Writer) error {
	reloads := make(chan config.Settings, 1)
	w, err := config.NewWatcher(loader, func(s config.Settings, err error) {
		if err != nil {
			logger.Warn().Err(err).Msg("keeping previous settings")
			return
		}
		select {
		case reloads <- s:
		default:
		}
	}, config.WithWatchLogger(logger))
	if err != nil {
		return err
	}
	defer w.Close()

	logger.Info().Str("config", loader.Path()).Msg("watching for changes")
	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-reloads:
			s = opts.apply(s)
			if err := s.Validate(); err != nil {
				logger.Warn().Err(err).Msg("keeping previous settings")
				continue
			}
			if err := processAll(ctx, opts, s, logger, stdout); err != nil {
				logger.Error().Err(err).Msg("run failed")
			}
		}
	}
}
