package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/convoyrelief/convoyd/pkg/config"
	"github.com/convoyrelief/convoyd/pkg/db"
	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/password"
	"github.com/convoyrelief/convoyd/pkg/server/store"
	gormstore "github.com/convoyrelief/convoyd/pkg/server/store/gorm"
)

const minPasswordLength = 8

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account with a role",
	Long: `Create a user account and assign it a role.

The role must already exist; it defaults to the configured default role.
Accounts are created inactive unless --active is given, the same as a signup.

Example:
  convoyctl user create --email dana@example.org --username dana --password changeme
  convoyctl user create --email ops@example.org --username ops --password changeme --role ADMIN --active`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		req := newAccount{}
		req.Email, _ = flags.GetString("email")
		req.Username, _ = flags.GetString("username")
		req.Password, _ = flags.GetString("password")
		req.Role, _ = flags.GetString("role")
		req.Active, _ = flags.GetBool("active")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if req.Role == "" {
			req.Role = cfg.DefaultRole
		}

		conn, err := db.Connect(db.Config{})
		if err != nil {
			return err
		}

		user, err := createAccount(context.Background(), gormstore.NewSubjectStore(conn), gormstore.NewRolesStore(conn), req)
		if err != nil {
			return err
		}

		state := "inactive"
		if user.IsActive {
			state = "active"
		}
		fmt.Fprintf(os.Stderr, "Created %s user '%s' with role %s\n", state, user.Username, req.Role)
		fmt.Println(user.ID)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().String("email", "", "email address of the account")
	userCreateCmd.Flags().String("username", "", "username of the account")
	userCreateCmd.Flags().String("password", "", "password of the account")
	userCreateCmd.Flags().String("role", "", "role to assign (default: the configured default role)")
	userCreateCmd.Flags().Bool("active", false, "activate the account immediately")
}

type newAccount struct {
	Email    string
	Username string
	Password string
	Role     string
	Active   bool
}

func createAccount(ctx context.Context, subjects store.SubjectStore, roles store.RolesStore, req newAccount) (*model.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Username == "" {
		return nil, fmt.Errorf("--email and --username are required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("--password must be at least %d characters", minPasswordLength)
	}

	known, err := roles.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	found := false
	for _, r := range known {
		if r.Name == req.Role {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("unknown role %q", req.Role)
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{Username: req.Username, Email: req.Email, PasswordHash: hash}
	if err := subjects.CreateSubject(ctx, user, req.Role); err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", req.Email, err)
	}
	if !req.Active {
		return user, nil
	}
	return subjects.ActivateSubject(ctx, user.ID)
}
