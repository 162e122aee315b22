package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/convoyrelief/convoyd/pkg/db"
	"github.com/convoyrelief/convoyd/pkg/password"
	"github.com/convoyrelief/convoyd/pkg/server/store"
	gormstore "github.com/convoyrelief/convoyd/pkg/server/store/gorm"
)

// userResetPasswordCmd represents the user reset-password command
var userResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email>",
	Short: "Reset a user's password",
	Long: `Replace the password of the user with the given email.

Credentials issued before the reset stay valid until they expire.

Example:
  convoyctl user reset-password dana@example.org --password n3w-passw0rd`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetString("password")

		conn, err := db.Connect(db.Config{})
		if err != nil {
			return err
		}
		if err := resetPassword(context.Background(), gormstore.NewSubjectStore(conn), args[0], plain); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Password reset for %s\n", args[0])
		return nil
	},
}

func init() {
	userCmd.AddCommand(userResetPasswordCmd)
	userResetPasswordCmd.Flags().String("password", "", "new password")
}

func resetPassword(ctx context.Context, subjects store.SubjectStore, email, plain string) error {
	if len(plain) < minPasswordLength {
		return fmt.Errorf("--password must be at least %d characters", minPasswordLength)
	}
	user, err := subjects.FindSubjectByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user %s: %w", email, err)
	}
	hash, err := password.Hash(plain)
	if err != nil {
		return err
	}
	return subjects.SetSubjectPassword(ctx, user.ID, hash)
}
