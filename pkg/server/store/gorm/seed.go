package gorm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/convoyrelief/convoyd/pkg/permission"
)

// SeedRole is a role that Seed grants at least the listed permissions
type SeedRole struct {
	Name        string
	Description string
	Permissions []permission.Permission
}

// SeedUser is an active account Seed creates when its email is unused.
// Role may name a role passed to the same Seed call or one already stored.
type SeedUser struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
}

// BootstrapRoles returns the roles a fresh deployment starts with: the
// super role holding every permission, ADMIN holding all but deleteRole, and
// the default role given to new accounts with read-only access.
func BootstrapRoles(superRole, defaultRole string) []SeedRole {
	return []SeedRole{
		{
			Name:        superRole,
			Description: "Full access to all features",
			Permissions: permission.All(),
		},
		{
			Name:        "ADMIN",
			Description: "Administrative access without role deletion",
			Permissions: permission.Except(permission.PermissionDeleteRole),
		},
		{
			Name:        defaultRole,
			Description: "Read-only access to roles and applications",
			Permissions: []permission.Permission{
				permission.PermissionViewRoles,
				permission.PermissionViewPermissions,
				permission.PermissionViewApplications,
				permission.PermissionViewConvoyApplications,
			},
		},
	}
}

// Seeder loads the permission catalog and bootstrap accounts
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new Seeder
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Seed stores every catalog permission, then roles, then users, in one
// transaction. Existing rows are kept so it can be run repeatedly.
func (s *Seeder) Seed(ctx context.Context, roles []SeedRole, users []SeedUser) error {
	now := time.Now().UTC()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		permissionIDs := make(map[permission.Permission]string)
		for _, p := range permission.All() {
			var id string
			err := tx.Raw(
				`INSERT INTO permissions (id, name, description, created_at) VALUES (?, ?, ?, ?) `+
					`ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description RETURNING id`,
				uuid.NewString(), p.String(), p.Description(), now,
			).Scan(&id).Error
			if err != nil {
				return fmt.Errorf("seed permission %s: %w", p, err)
			}
			permissionIDs[p] = id
		}

		roleIDs := make(map[string]string)
		for _, r := range roles {
			var id string
			err := tx.Raw(
				`INSERT INTO roles (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?) `+
					`ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description RETURNING id`,
				uuid.NewString(), r.Name, r.Description, now, now,
			).Scan(&id).Error
			if err != nil {
				return fmt.Errorf("seed role %s: %w", r.Name, err)
			}
			for _, p := range r.Permissions {
				err := tx.Exec(
					`INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
					id, permissionIDs[p],
				).Error
				if err != nil {
					return fmt.Errorf("seed grant %s to %s: %w", p, r.Name, err)
				}
			}
			roleIDs[r.Name] = id
		}

		for _, u := range users {
			roleID, ok := roleIDs[u.Role]
			if !ok {
				if err := tx.Raw(`SELECT id FROM roles WHERE name = ?`, u.Role).Scan(&roleID).Error; err != nil {
					return fmt.Errorf("seed user %s: %w", u.Email, err)
				}
				if roleID == "" {
					return fmt.Errorf("seed user %s: unknown role %s", u.Email, u.Role)
				}
				roleIDs[u.Role] = roleID
			}
			err := tx.Exec(
				`INSERT INTO users (id, username, email, password, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, ?, ?) `+
					`ON CONFLICT (email) DO NOTHING`,
				uuid.NewString(), u.Username, u.Email, u.PasswordHash, now, now,
			).Error
			if err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, mapError(err, "user", ""))
			}

			var userID string
			if err := tx.Raw(`SELECT id FROM users WHERE email = ?`, u.Email).Scan(&userID).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
			err = tx.Exec(
				`INSERT INTO user_roles (user_id, role_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
				userID, roleID,
			).Error
			if err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
		}
		return nil
	})
}
