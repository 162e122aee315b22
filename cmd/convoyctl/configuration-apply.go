package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/convoyrelief/convoyd/pkg/config"
)

// configurationApplyCmd represents the configuration apply command
var configurationApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Write the effective configuration to the config file",
	Long: `Validate the effective configuration and write it to the config file.

Values currently coming from environment variables are written to the file so
that they persist. Secrets such as CONVOYD_JWT_SECRET and DATABASE_URL stay in
the environment and are never written. A running server reads the file at
startup, so restart it to pick up the change.

Use --test to validate configuration without writing.

Example:
  convoyctl configuration apply
  convoyctl configuration apply --test`,
	RunE: func(cmd *cobra.Command, args []string) error {
		testMode, _ := cmd.Flags().GetBool("test")
		return applyConfiguration(testMode, os.Stdout)
	},
}

func init() {
	configurationCmd.AddCommand(configurationApplyCmd)
	configurationApplyCmd.Flags().Bool("test", false, "Validate configuration without writing it")
}

func applyConfiguration(testMode bool, out io.Writer) error {
	fmt.Fprintln(out, "Validating configuration...")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	fmt.Fprintf(out, "Config file: %s\n", cfg.ConfigFilePath())

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	fmt.Fprintln(out, "Configuration is valid.")

	if testMode {
		fmt.Fprintln(out, "Test mode: not writing the config file.")
		return nil
	}

	if err := cfg.WriteFile(cfg.ConfigFilePath()); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.ConfigFilePath(), err)
	}
	fmt.Fprintln(out, "Configuration written. Restart the server to apply it.")
	return nil
}
