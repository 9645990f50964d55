package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kilnlang/kiln/internal/history"
)

func cmdHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := commonFlags(fs)
	limit := fs.Int("limit", 20, "maximum number of runs to list")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: kiln history [-config kiln.yaml] [-limit N]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)
	_ = configPath

	store, err := history.Open(".kiln-history.db")
	if err != nil {
		fmt.Fprintf(os.Stderr, "kiln: %v\n", err)
		os.Exit(2)
	}
	defer store.Close()

	runs, err := store.Recent(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kiln: %v\n", err)
		os.Exit(2)
	}

	if len(runs) == 0 {
		fmt.Println("no recorded compile runs")
		return
	}

	for _, r := range runs {
		status := "ok"
		switch r.Status {
		case 1:
			status = "domain-error"
		case 2:
			status = "internal-error"
		case 3:
			status = "unknown"
		}
		fmt.Printf("%s  %-14s  %6dms  %3d files  %3d decls  %s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), status, r.DurationMillis,
			r.SourceFileCount, r.DeclarationCount, r.RunID)
		if r.ErrorMessage != "" {
			fmt.Printf("    %s\n", r.ErrorMessage)
		}
	}
}
