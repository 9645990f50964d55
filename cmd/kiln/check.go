package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kilnlang/kiln/internal/driver"
	"github.com/kilnlang/kiln/internal/loader"
)

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := commonFlags(fs)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: kiln check [-config kiln.yaml] [paths...]\n\nFlags:\n")
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

	// check never passes an Emitter: the driver skips the emit phase
	// whenever opts.Emitter is nil, so this runs only tokenize through
	// resolve.
	res := driver.Run(driver.Options{Sources: sources, Logger: logger})
	if res.Err != nil {
		fail(res.Err)
	}

	fmt.Printf("ok: %d declarations, emission order:\n", res.Declarations)
	for _, name := range res.Order {
		fmt.Printf("  %s\n", name)
	}
}
