package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/convoyrelief/convoyd/pkg/config"
	"github.com/convoyrelief/convoyd/pkg/db"
	"github.com/convoyrelief/convoyd/pkg/password"
	gormstore "github.com/convoyrelief/convoyd/pkg/server/store/gorm"
)

// dbSeedCmd represents the db seed command
var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the permission catalog and bootstrap accounts",
	Long: `Load the permission catalog, the bootstrap roles and one active
account per role.

Existing permissions, roles and accounts are left in place, so the command
can be run repeatedly. Bootstrap accounts are named after their role, for
example superadmin@example.com.

Example:
  convoyctl db seed --password changeme
  convoyctl db seed --password changeme --domain relief.example.org`,
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetString("password")
		domain, _ := cmd.Flags().GetString("domain")
		if plain == "" {
			return fmt.Errorf("--password is required")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		conn, err := db.Connect(db.Config{})
		if err != nil {
			return err
		}

		hash, err := password.Hash(plain)
		if err != nil {
			return err
		}

		roles := gormstore.BootstrapRoles(cfg.SuperRole, cfg.DefaultRole)
		users := make([]gormstore.SeedUser, 0, len(roles))
		for _, r := range roles {
			name := strings.ToLower(strings.ReplaceAll(r.Name, "_", ""))
			users = append(users, gormstore.SeedUser{
				Username:     name,
				Email:        name + "@" + domain,
				PasswordHash: hash,
				Role:         r.Name,
			})
		}

		if err := gormstore.NewSeeder(conn).Seed(context.Background(), roles, users); err != nil {
			return err
		}

		for _, u := range users {
			fmt.Printf("Seeded %s (%s)\n", u.Email, u.Role)
		}
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbSeedCmd)
	dbSeedCmd.Flags().String("password", "", "password for the bootstrap accounts")
	dbSeedCmd.Flags().String("domain", "example.com", "email domain for the bootstrap accounts")
}
