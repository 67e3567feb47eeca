// Package main is the recomp command line tool.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

// loadEnvFiles loads .env from standard locations
func loadEnvFiles() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		_ = godotenv.Load()
		return
	}

	configEnv := filepath.Join(homeDir, ".config", "recomp", ".env")
	if _, err := os.Stat(configEnv); err == nil {
		_ = godotenv.Load(configEnv)
	}

	_ = godotenv.Load()
}

func main() {
	loadEnvFiles()
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches a subcommand and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printHelp(stderr)
		return 2
	}

	streams := ioStreams{stdin: stdin, stdout: stdout, stderr: stderr}

	var err error
	switch args[0] {
	case "compress":
		err = runCompress(args[1:], streams)
	case "decompress":
		err = runDecompress(args[1:], streams)
	case "verify":
		err = runVerify(args[1:], streams)
	case "stats":
		err = runStats(args[1:], streams)
	case "version", "-v", "--version":
		fmt.Fprintf(stdout, "recomp %s\n", version)
		return 0
	case "help", "-h", "--help":
		printHelp(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printHelp(stderr)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		fmt.Fprintf(stderr, "recomp %s: %v\n", args[0], err)
		return 1
	}
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `recomp builds run-length grammars of files by parallel recompression.

Usage:
  recomp <command> [flags]

Commands:
  compress     Recompress a file and write the grammar container
  decompress   Derive the original bytes from a grammar container
  verify       Check that a grammar container derives a file
  stats        Print header and grammar statistics of a container
  version      Print the version
  help         Print this help

Use "recomp <command> -h" for the flags of a command. "-" as a path means
stdin or stdout. Settings not given as flags come from -config (YAML) or
the built-in defaults.
`)
}
