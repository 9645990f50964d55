package main

import (
	"flag"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/kilnlang/kiln/internal/driver"
	"github.com/kilnlang/kiln/internal/fixtures"
)

func cmdTest(args []string) {
	fs := flag.NewFlagSet("test", flag.ExitOnError)
	fixturesPath := fs.String("fixtures", "fixtures.yaml", "path to the fixtures.yaml suite")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: kiln test [-fixtures fixtures.yaml]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	suite, err := fixtures.Load(*fixturesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kiln: %v\n", err)
		os.Exit(2)
	}

	failures := 0
	for _, c := range suite.Cases {
		if err := runCase(c); err != nil {
			fmt.Printf("FAIL  %s: %v\n", c.Name, err)
			failures++
			continue
		}
		fmt.Printf("ok    %s\n", c.Name)
	}

	if failures > 0 {
		fmt.Printf("\n%d/%d cases failed\n", failures, len(suite.Cases))
		os.Exit(1)
	}
	fmt.Printf("\nall %d cases passed\n", len(suite.Cases))
}

// runCase compiles one fixture case's files and checks the result
// against its expectation, returning a descriptive error on mismatch.
func runCase(c fixtures.Case) error {
	res := driver.Run(driver.Options{Sources: c.Files})

	if res.Status != c.WantStatus {
		return fmt.Errorf("status = %d, want %d (err: %v)", res.Status, c.WantStatus, res.Err)
	}

	if c.WantStatus == driver.StatusOK {
		if len(c.WantOrder) > 0 && !reflect.DeepEqual(res.Order, c.WantOrder) {
			return fmt.Errorf("order = %v, want %v", res.Order, c.WantOrder)
		}
		return nil
	}

	if c.WantErrorSubstring != "" {
		if res.Err == nil || !strings.Contains(res.Err.Error(), c.WantErrorSubstring) {
			return fmt.Errorf("error = %v, want substring %q", res.Err, c.WantErrorSubstring)
		}
	}
	return nil
}
