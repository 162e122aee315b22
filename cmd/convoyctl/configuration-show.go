package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/convoyrelief/convoyd/pkg/config"
)

// configurationShowCmd represents the configuration show command
var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show convoyd configuration attributes and their sources",
	Long: `Show convoyd configuration attributes and their sources.

The values displayed by this command reflect the current state of the
configuration sources, that is the environment variables and the config
file. They may not match the values used by a running server.

Config file location: /etc/convoyd/convoyd.yml (or CONVOYD_CONFIG_PATH)

Example:
  convoyctl configuration show
  convoyctl configuration show --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		return showConfiguration(output)
	},
}

// configurationValidateCmd represents the configuration validate command
var configurationValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the configuration can start a server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if len(config.JWTSecret()) == 0 {
			return fmt.Errorf("%s is not set", config.EnvJWTSecret)
		}
		fmt.Println("Configuration is valid")
		return nil
	},
}

func init() {
	configurationCmd.AddCommand(configurationShowCmd)
	configurationCmd.AddCommand(configurationValidateCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func showConfiguration(output string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	switch output {
	case "json":
		jsonOutput, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Println(jsonOutput)
	case "text":
		fmt.Print(cfg.FormatText())
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
	return nil
}
