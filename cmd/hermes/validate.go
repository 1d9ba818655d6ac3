package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"evalhq/hermes/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file, apply defaults and environment
overrides, and report whether the result is valid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return fmt.Errorf("configuration invalid: %w", err)
		}

		fmt.Println("✓ Configuration valid")
		if verbose {
			fmt.Printf("  listen address: %s\n", cfg.Server.ListenAddress)
			fmt.Printf("  bridge timeout: %s\n", cfg.Bridge.Timeout)
			fmt.Printf("  provider:       %s\n", cfg.Bridge.Provider)
			fmt.Printf("  auth keys:      %d\n", len(cfg.Auth.Keys))
			fmt.Printf("  audit enabled:  %v\n", cfg.Audit.Enabled)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
