package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database",
	Long:  `Manage the database schema, migrations and bootstrap data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Help()
		return fmt.Errorf("command 'db' requires a subcommand (migrate, down, status, seed, wait)")
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
