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
	"time"

	"github.com/givxl33t/magneto/batch"
)

const (
	exitOK       = 0
	exitFailures = 1
	exitUsage    = 2
	exitCanceled = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type config struct {
	input         string
	output        string
	recursive     bool
	caseSensitive bool
	trackers      bool
	format        batch.Format
	stdout        bool
	workers       int
	verify        bool
	timeout       time.Duration
	logLevel      slog.Level
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("magneto", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: magneto [flags] <file.torrent | directory>\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.output, "o", "", "output file or directory (default: next to the input)")
	fs.BoolVar(&cfg.recursive, "r", false, "search directories recursively")
	fs.BoolVar(&cfg.caseSensitive, "case-sensitive", false, "match the .torrent extension case-sensitively")
	fs.BoolVar(&cfg.trackers, "trackers", false, "include tracker URLs in magnet links")
	format := fs.String("format", string(batch.FormatFull), "output format: full, links_only or json")
	fs.BoolVar(&cfg.stdout, "stdout", false, "print results instead of saving them")
	fs.IntVar(&cfg.workers, "workers", 0, "files converted concurrently (default: number of CPUs)")
	fs.BoolVar(&cfg.verify, "verify", false, "cross-check every result with independent bencode implementations")
	fs.DurationVar(&cfg.timeout, "timeout", 0, "give up on files not started after this long (0 disables)")
	fs.TextVar(&cfg.logLevel, "log-level", slog.LevelInfo, "log level: debug, info, warn, error")
	verbose := fs.Bool("verbose", false, "log per-file details (same as -log-level debug)")
	quiet := fs.Bool("quiet", false, "log errors only")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return cfg, errors.New("exactly one input path is required")
	}
	cfg.input = fs.Arg(0)

	var err error
	cfg.format, err = batch.ParseFormat(*format)
	if err != nil {
		return cfg, err
	}

	switch {
	case *verbose && *quiet:
		return cfg, errors.New("-verbose and -quiet are mutually exclusive")
	case *verbose:
		cfg.logLevel = slog.LevelDebug
	case *quiet:
		cfg.logLevel = slog.LevelError
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, "magneto:", err)
		return exitUsage
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.logLevel}))
	slog.SetDefault(logger)

	files, err := batch.Collect(cfg.input, cfg.recursive, cfg.caseSensitive)
	if err != nil {
		slog.Error("collecting torrent files", "input", cfg.input, "err", err)
		return exitFailures
	}
	if len(files) == 0 {
		slog.Warn("no .torrent files found", "input", cfg.input)
		return exitOK
	}
	slog.Info("found torrent files", "count", len(files), "recursive", cfg.recursive)

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	results := batch.Run(ctx, files, batch.Options{
		Workers:         cfg.workers,
		IncludeTrackers: cfg.trackers,
		Verify:          cfg.verify,
	})

	if cfg.stdout {
		err = batch.Write(stdout, results, cfg.format)
	} else {
		var path string
		path, err = batch.OutputPath(cfg.input, cfg.output, cfg.format)
		if err == nil {
			err = batch.WriteFile(path, results, cfg.format)
		}
		if err == nil {
			slog.Info("saved results", "path", path)
		}
	}
	if err != nil {
		slog.Error("writing results", "err", err)
		return exitFailures
	}

	failed := batch.Failures(results)
	slog.Info("done", "total", len(results), "succeeded", len(results)-failed, "failed", failed)

	if errors.Is(ctx.Err(), context.Canceled) {
		return exitCanceled
	}
	if failed > 0 {
		return exitFailures
	}
	return exitOK
}
