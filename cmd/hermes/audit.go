package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"evalhq/hermes/pkg/audit"
	"evalhq/hermes/pkg/cli"
	"evalhq/hermes/pkg/config"
)

var auditFlags struct {
	limit     int
	format    string
	olderThan time.Duration
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the bridged-call audit trail",
}

var auditRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recent bridged calls",
	Long: `Read the audit database configured in the config file and print the
most recent bridged calls, newest first.

Examples:
  # Last 20 calls as text
  hermes audit recent

  # Last 100 calls as JSON
  hermes audit recent --limit 100 --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return cli.NewConfigError("", err.Error())
		}
		if !cfg.Audit.Enabled {
			return cli.NewConfigError("audit.enabled", "audit trail is disabled")
		}

		store, err := audit.OpenStore(audit.StoreConfig{
			Driver: cfg.Audit.Driver,
			Path:   cfg.Audit.Path,
		})
		if err != nil {
			return cli.NewCommandError("audit recent", err)
		}
		defer store.Close()

		entries, err := store.Recent(cmd.Context(), auditFlags.limit)
		if err != nil {
			return cli.NewCommandError("audit recent", err)
		}

		if cli.OutputFormat(auditFlags.format) == cli.FormatJSON {
			return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, entries)
		}
		for _, e := range entries {
			line := fmt.Sprintf("%s  %-4s %-30s %d  %s",
				e.CreatedAt.Format("2006-01-02 15:04:05"),
				e.Method, e.Path, e.Status, e.Duration)
			if e.ErrorKind != "" {
				line += "  " + e.ErrorKind
			}
			if err := cli.NewFormatter(cli.FormatText).FormatTo(os.Stdout, line); err != nil {
				return err
			}
		}
		return nil
	},
}

var auditPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete audit entries older than a cutoff",
	Long: `Delete bridged-call audit entries older than the given age and report
how many were removed.

Examples:
  # Drop everything older than 30 days (the default)
  hermes audit purge

  # Drop everything older than 48 hours
  hermes audit purge --older-than 48h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return cli.NewConfigError("", err.Error())
		}
		if !cfg.Audit.Enabled {
			return cli.NewConfigError("audit.enabled", "audit trail is disabled")
		}
		if auditFlags.olderThan <= 0 {
			return cli.NewConfigError("older-than", "cutoff must be a positive duration")
		}

		store, err := audit.OpenStore(audit.StoreConfig{
			Driver: cfg.Audit.Driver,
			Path:   cfg.Audit.Path,
		})
		if err != nil {
			return cli.NewCommandError("audit purge", err)
		}
		defer store.Close()

		removed, err := store.Purge(cmd.Context(), time.Now().Add(-auditFlags.olderThan))
		if err != nil {
			return cli.NewCommandError("audit purge", err)
		}
		fmt.Printf("purged %d entries older than %s\n", removed, auditFlags.olderThan)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditRecentCmd)
	auditCmd.AddCommand(auditPurgeCmd)

	auditRecentCmd.Flags().IntVar(&auditFlags.limit, "limit", 20, "maximum entries to show")
	auditRecentCmd.Flags().StringVar(&auditFlags.format, "format", "text", "output format (text, json)")
	auditPurgeCmd.Flags().DurationVar(&auditFlags.olderThan, "older-than", 30*24*time.Hour, "minimum age of entries to delete")
}
