// ABOUTME: Main entry point for the digest command
// ABOUTME: Loads configuration from the environment and runs the CLI

package main

import (
	"fmt"
	"os"

	"page-digest/pkg/config"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	rt := newRuntime(cfg, os.Stdout, os.Stderr)
	if err := newCLIApp(rt).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if exitErr, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}
