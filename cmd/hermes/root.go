package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"evalhq/hermes/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "hermes",
	Short: "Hermes - in-process bridge for embedded evaluation engines",
	Long: `Hermes exposes an embedded evaluation engine through an MCP-style
envelope API. The engine is resolved from the module registry at startup and
every call is dispatched in-process, without sockets.

It provides:
  - Ordered engine module resolution with explicit overrides
  - No-socket dispatch with per-call timeouts and panic isolation
  - Result envelopes with fresh request ids per dispatch
  - API-key authentication on bridged endpoints
  - Direct engine passthrough at /wrapper
  - Prometheus metrics and a SQLite audit trail`,
	Version: Version,
}

// Execute runs the root command. Configuration errors exit with a distinct
// code so supervisors do not restart-loop on a broken config file.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
