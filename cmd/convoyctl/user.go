package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
	Long:  `Create accounts and reset passwords directly in the database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Help()
		return fmt.Errorf("command 'user' requires a subcommand (create, reset-password)")
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
}
