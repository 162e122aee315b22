package store

import (
	"context"

	"github.com/convoyrelief/convoyd/pkg/model"
)

// RoleUpdate holds the fields of a role update. Nil fields are left as is.
// PermissionIDs replaces the role's grants when non-nil, so an empty
// non-nil slice revokes everything.
type RoleUpdate struct {
	Name          *string
	Description   *string
	PermissionIDs []string
}

// RolesStore abstracts role and permission storage operations
type RolesStore interface {
	// ListRoles returns all roles with their permissions
	ListRoles(ctx context.Context) ([]model.Role, error)

	// FindRole retrieves a role with its permissions
	FindRole(ctx context.Context, id string) (*model.Role, error)

	// CreateRole creates a role and grants it the given permissions
	CreateRole(ctx context.Context, r *model.Role, permissionIDs []string) (*model.Role, error)

	// UpdateRole applies an update to a role
	UpdateRole(ctx context.Context, id string, update RoleUpdate) (*model.Role, error)

	// DeleteRole removes a role that is not assigned to any user.
	// Returns an *InUseError otherwise.
	DeleteRole(ctx context.Context, id string) error

	// ListPermissions returns the stored permission catalog
	ListPermissions(ctx context.Context) ([]model.Permission, error)

	// CreatePermission stores a permission
	CreatePermission(ctx context.Context, p *model.Permission) error

	// SetRolePermissions replaces the permissions granted to a role
	SetRolePermissions(ctx context.Context, roleID string, permissionIDs []string) error

	// RoleHolders returns the ids of the users assigned a role
	RoleHolders(ctx context.Context, roleID string) ([]string, error)
}
