// Command kiln compiles kiln DSL source files into a typed target
// package. It is a thin ambient wrapper around the compiler core in
// internal/compiler: it loads a kiln.yaml manifest (or explicit file
// and directory arguments), reads the named sources, and calls the
// entry point documented by the specification.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "compile":
		cmdCompile(args)
	case "check":
		cmdCheck(args)
	case "history":
		cmdHistory(args)
	case "test":
		cmdTest(args)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "kiln: unknown command %q\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: kiln <command> [flags] [paths...]

Commands:
  compile   compile sources and emit the target package
  check     validate and resolve sources without emitting
  test      run a declarative fixtures.yaml compile-test suite
  history   list recent compile runs

Run "kiln <command> -h" for command-specific flags.
`)
}

// commonFlags registers and returns the -config flag every subcommand
// that loads a manifest accepts.
func commonFlags(fs *flag.FlagSet) (configPath *string) {
	return fs.String("config", "kiln.yaml", "path to the kiln.yaml manifest")
}
