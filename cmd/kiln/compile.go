package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/kilnlang/kiln/internal/compiler/emitter"
	kerr "github.com/kilnlang/kiln/internal/compiler/errors"
	"github.com/kilnlang/kiln/internal/config"
	"github.com/kilnlang/kiln/internal/driver"
	"github.com/kilnlang/kiln/internal/history"
	"github.com/kilnlang/kiln/internal/loader"
)

func cmdCompile(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	configPath := commonFlags(fs)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: kiln compile [-config kiln.yaml] [paths...]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	cfg, err := loadManifest(*configPath, fs.Args())
	if err != nil {
		fail(err)
	}

	sources, err := loader.Load(cfg.Sources)
	if err != nil {
		fail(err)
	}

	logger := newLogger(cfg.LogLevel)

	// The manifest path is relative to the Flush root, which the driver
	// sets to cfg.Output.
	em := emitter.NewManifest("manifest.txt")

	var store *history.Store
	if cfg.RecordHistory() {
		store, err = history.Open(".kiln-history.db")
		if err != nil {
			logger.Warn("could not open compile history store", "error", err)
		} else {
			defer store.Close()
		}
	}

	res := driver.Run(driver.Options{
		Sources:   sources,
		OutputDir: cfg.Output,
		Emitter:   em,
		Logger:    logger,
		History:   store,
	})
	if res.Err != nil {
		fail(res.Err)
	}

	fmt.Printf("compiled %d declarations to %s (run %s)\n", res.Declarations, cfg.Output, res.RunID)
}

// loadManifest reads kiln.yaml at path, overriding its Sources with
// extra when the caller named explicit paths on the command line.
func loadManifest(path string, extra []string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if len(extra) == 0 {
			return nil, err
		}
		cfg = &config.Config{Output: "out", Lang: "go"}
	}
	if len(extra) > 0 {
		cfg.Sources = extra
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func fail(err error) {
	var domainErr kerr.DomainError
	if errors.As(err, &domainErr) {
		fmt.Fprintln(os.Stderr, domainErr.Error())
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "kiln: %v\n", err)
	os.Exit(2)
}
