// Package main is the entry point for the pulsecheck CLI.
//
// pulsecheck polls a list of HTTP endpoints in order and shows the latest
// outcome of each one, either in the terminal or on a web dashboard.
//
// Usage:
//
//	pulsecheck watch                     # Terminal table with default targets
//	pulsecheck watch -c pulsecheck.yaml  # Terminal table from a config file
//	pulsecheck serve -c pulsecheck.yaml  # Web dashboard
//	pulsecheck validate -c config.yaml   # Validate configuration
//	pulsecheck version                   # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pulsecheck",
		Short: "A sequential HTTP endpoint health checker",
		Long: `pulsecheck polls HTTP endpoints one after another, waits a configurable
number of seconds, and repeats. Each endpoint shows its latest status code,
response time and error.

Quick start:
  1. Run the probe server: probeserver
  2. Run: pulsecheck watch
  3. Or: pulsecheck serve and open http://localhost:8080

Example config:
  interval: 30
  timeout: 5s
  targets:
    - http://localhost:8000/servidor
    - https://www.google.com/`,
		SilenceUsage: true,
	}

	addSettingsFlags(root)

	root.AddCommand(
		newWatchCmd(),
		newServeCmd(),
		newValidateCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// newVersionCmd prints version information.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of this pulsecheck binary.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "pulsecheck %s\n", version)
			_, _ = fmt.Fprintf(out, "  commit: %s\n", commit)
			_, _ = fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}
