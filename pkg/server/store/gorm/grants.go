package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/convoyrelief/convoyd/pkg/model"
)

// grantRow is one (role, permission) pair of a roles/permissions join.
// Permission columns are null for roles without grants.
type grantRow struct {
	RoleID                string
	RoleName              string
	RoleDescription       *string
	RoleCreatedAt         time.Time
	RoleUpdatedAt         time.Time
	PermissionID          *string
	PermissionName        *string
	PermissionDescription *string
}

const grantColumns = `
	SELECT r.id AS role_id, r.name AS role_name, r.description AS role_description,
	       r.created_at AS role_created_at, r.updated_at AS role_updated_at,
	       p.id AS permission_id, p.name AS permission_name, p.description AS permission_description
`

const subjectGrantsQuery = grantColumns + `
	FROM user_roles ur
	JOIN roles r ON r.id = ur.role_id
	LEFT JOIN role_permissions rp ON rp.role_id = r.id
	LEFT JOIN permissions p ON p.id = rp.permission_id
	WHERE ur.user_id = ?
	ORDER BY r.name, p.name
`

const allGrantsQuery = grantColumns + `
	FROM roles r
	LEFT JOIN role_permissions rp ON rp.role_id = r.id
	LEFT JOIN permissions p ON p.id = rp.permission_id
	ORDER BY r.name, p.name
`

const roleGrantsQuery = grantColumns + `
	FROM roles r
	LEFT JOIN role_permissions rp ON rp.role_id = r.id
	LEFT JOIN permissions p ON p.id = rp.permission_id
	WHERE r.id = ?
	ORDER BY p.name
`

func scanRoles(db *gorm.DB, query string, args ...interface{}) ([]model.Role, error) {
	var rows []grantRow
	if err := db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return groupRoles(rows), nil
}

// groupRoles folds join rows into roles, keeping row order.
func groupRoles(rows []grantRow) []model.Role {
	roles := make([]model.Role, 0)
	index := make(map[string]int)
	for _, row := range rows {
		i, ok := index[row.RoleID]
		if !ok {
			roles = append(roles, model.Role{
				ID:          row.RoleID,
				Name:        row.RoleName,
				Description: row.RoleDescription,
				CreatedAt:   row.RoleCreatedAt,
				UpdatedAt:   row.RoleUpdatedAt,
				Permissions: []model.Permission{},
			})
			i = len(roles) - 1
			index[row.RoleID] = i
		}
		if row.PermissionID == nil || row.PermissionName == nil {
			continue
		}
		p := model.Permission{ID: *row.PermissionID, Name: *row.PermissionName}
		if row.PermissionDescription != nil {
			p.Description = *row.PermissionDescription
		}
		roles[i].Permissions = append(roles[i].Permissions, p)
	}
	return roles
}

// replaceGrants swaps the permission grants of a role inside tx.
func replaceGrants(tx *gorm.DB, roleID string, permissionIDs []string) error {
	if err := tx.Exec(`DELETE FROM role_permissions WHERE role_id = ?`, roleID).Error; err != nil {
		return err
	}
	return insertGrants(tx, roleID, permissionIDs)
}

func insertGrants(tx *gorm.DB, roleID string, permissionIDs []string) error {
	seen := make(map[string]struct{}, len(permissionIDs))
	for _, permissionID := range permissionIDs {
		if _, dup := seen[permissionID]; dup {
			continue
		}
		seen[permissionID] = struct{}{}
		err := tx.Exec(
			`INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?)`,
			roleID, permissionID,
		).Error
		if err != nil {
			return mapError(err, "role permission", "permission")
		}
	}
	return nil
}
