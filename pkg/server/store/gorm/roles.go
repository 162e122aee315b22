package gorm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/server/store"
)

// Ensure RolesStore implements store.RolesStore
var _ store.RolesStore = (*RolesStore)(nil)

// RolesStore implements store.RolesStore using GORM
type RolesStore struct {
	db *gorm.DB
}

// NewRolesStore creates a new RolesStore
func NewRolesStore(db *gorm.DB) *RolesStore {
	return &RolesStore{db: db}
}

// ListRoles returns all roles with their permissions
func (s *RolesStore) ListRoles(ctx context.Context) ([]model.Role, error) {
	return scanRoles(s.db.WithContext(ctx), allGrantsQuery)
}

// FindRole retrieves a role with its permissions
func (s *RolesStore) FindRole(ctx context.Context, id string) (*model.Role, error) {
	return findRole(s.db.WithContext(ctx), id)
}

func findRole(db *gorm.DB, id string) (*model.Role, error) {
	roles, err := scanRoles(db, roleGrantsQuery, id)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, store.NotFound("role")
	}
	return &roles[0], nil
}

// CreateRole creates a role and grants it the given permissions
func (s *RolesStore) CreateRole(ctx context.Context, r *model.Role, permissionIDs []string) (*model.Role, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	var created *model.Role
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(
			`INSERT INTO roles (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Description, now, now,
		).Error
		if err != nil {
			return mapError(err, "role", "")
		}
		if err := insertGrants(tx, r.ID, permissionIDs); err != nil {
			return err
		}
		created, err = findRole(tx, r.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateRole applies an update to a role
func (s *RolesStore) UpdateRole(ctx context.Context, id string, update store.RoleUpdate) (*model.Role, error) {
	var updated *model.Role
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`UPDATE roles SET name = COALESCE(?, name), description = COALESCE(?, description), updated_at = ? WHERE id = ?`,
			update.Name, update.Description, time.Now().UTC(), id,
		)
		if res.Error != nil {
			return mapError(res.Error, "role", "")
		}
		if res.RowsAffected == 0 {
			return store.NotFound("role")
		}
		if update.PermissionIDs != nil {
			if err := replaceGrants(tx, id, update.PermissionIDs); err != nil {
				return err
			}
		}
		var err error
		updated, err = findRole(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRole removes a role and its grants
func (s *RolesStore) DeleteRole(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assigned int64
		if err := tx.Raw(`SELECT count(*) FROM user_roles WHERE role_id = ?`, id).Scan(&assigned).Error; err != nil {
			return err
		}
		if assigned > 0 {
			return &store.InUseError{Entity: "role", Count: assigned}
		}
		if err := tx.Exec(`DELETE FROM role_permissions WHERE role_id = ?`, id).Error; err != nil {
			return err
		}
		res := tx.Exec(`DELETE FROM roles WHERE id = ?`, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.NotFound("role")
		}
		return nil
	})
}

// ListPermissions returns the stored permissions ordered by name
func (s *RolesStore) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	permissions := make([]model.Permission, 0)
	err := s.db.WithContext(ctx).
		Raw(`SELECT id, name, description, created_at FROM permissions ORDER BY name`).
		Scan(&permissions).Error
	if err != nil {
		return nil, err
	}
	return permissions, nil
}

// CreatePermission stores a permission
func (s *RolesStore) CreatePermission(ctx context.Context, p *model.Permission) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	err := s.db.WithContext(ctx).Exec(
		`INSERT INTO permissions (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.CreatedAt,
	).Error
	return mapError(err, "permission", "")
}

// SetRolePermissions replaces the permissions granted to a role
func (s *RolesStore) SetRolePermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireExists(tx, `SELECT count(*) FROM roles WHERE id = ?`, roleID, "role"); err != nil {
			return err
		}
		return replaceGrants(tx, roleID, permissionIDs)
	})
}

// RoleHolders returns the ids of the users assigned a role
func (s *RolesStore) RoleHolders(ctx context.Context, roleID string) ([]string, error) {
	holders := make([]string, 0)
	err := s.db.WithContext(ctx).
		Raw(`SELECT user_id FROM user_roles WHERE role_id = ? ORDER BY user_id`, roleID).
		Scan(&holders).Error
	if err != nil {
		return nil, err
	}
	return holders, nil
}
