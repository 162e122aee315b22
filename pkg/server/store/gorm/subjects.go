package gorm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/server/store"
)

// Ensure SubjectStore implements store.SubjectStore
var _ store.SubjectStore = (*SubjectStore)(nil)

const defaultRoleDescription = "Default role for new users"

const userColumns = `SELECT id, username, email, password, phone_number, is_active, created_at, updated_at FROM users`

// SubjectStore implements store.SubjectStore using GORM
type SubjectStore struct {
	db *gorm.DB
}

// NewSubjectStore creates a new SubjectStore
func NewSubjectStore(db *gorm.DB) *SubjectStore {
	return &SubjectStore{db: db}
}

// FindSubjectByID retrieves a user with roles and permissions
func (s *SubjectStore) FindSubjectByID(ctx context.Context, id string) (*model.User, error) {
	return s.findSubject(ctx, userColumns+` WHERE id = ?`, id)
}

// FindSubjectByEmail retrieves a user with roles and permissions by email
func (s *SubjectStore) FindSubjectByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findSubject(ctx, userColumns+` WHERE email = ?`, email)
}

func (s *SubjectStore) findSubject(ctx context.Context, query string, arg string) (*model.User, error) {
	db := s.db.WithContext(ctx)

	var user model.User
	res := db.Raw(query, arg).Scan(&user)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.NotFound("user")
	}

	roles, err := scanRoles(db, subjectGrantsQuery, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return &user, nil
}

// CreateSubject inserts the user and assigns the default role in one
// transaction. The role is created when missing.
func (s *SubjectStore) CreateSubject(ctx context.Context, u *model.User, defaultRole string) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var roleID string
		res := tx.Raw(`SELECT id FROM roles WHERE name = ?`, defaultRole).Scan(&roleID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			roleID = uuid.NewString()
			err := tx.Exec(
				`INSERT INTO roles (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
				roleID, defaultRole, defaultRoleDescription, now, now,
			).Error
			if err != nil {
				return mapError(err, "role", "")
			}
		}

		err := tx.Exec(
			`INSERT INTO users (id, username, email, password, phone_number, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			u.ID, u.Username, u.Email, u.PasswordHash, u.PhoneNumber, u.IsActive, now, now,
		).Error
		if err != nil {
			return mapError(err, "user", "")
		}

		err = tx.Exec(`INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)`, u.ID, roleID).Error
		if err != nil {
			return mapError(err, "user role", "role")
		}

		u.CreatedAt = now
		u.UpdatedAt = now
		u.Roles = []model.Role{{ID: roleID, Name: defaultRole, Permissions: []model.Permission{}}}
		return nil
	})
}

// ActivateSubject marks a user active
func (s *SubjectStore) ActivateSubject(ctx context.Context, id string) (*model.User, error) {
	res := s.db.WithContext(ctx).Exec(
		`UPDATE users SET is_active = true, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.NotFound("user")
	}
	return s.FindSubjectByID(ctx, id)
}

// ReplaceSubjectRoles replaces all role assignments of a user with one role
func (s *SubjectStore) ReplaceSubjectRoles(ctx context.Context, id string, roleID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireExists(tx, `SELECT count(*) FROM users WHERE id = ?`, id, "user"); err != nil {
			return err
		}
		if err := requireExists(tx, `SELECT count(*) FROM roles WHERE id = ?`, roleID, "role"); err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM user_roles WHERE user_id = ?`, id).Error; err != nil {
			return err
		}
		err := tx.Exec(`INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)`, id, roleID).Error
		return mapError(err, "user role", "role")
	})
}

// SetSubjectPassword replaces the password hash of a user
func (s *SubjectStore) SetSubjectPassword(ctx context.Context, id string, passwordHash string) error {
	res := s.db.WithContext(ctx).Exec(
		`UPDATE users SET password = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.NotFound("user")
	}
	return nil
}

func requireExists(tx *gorm.DB, query string, id string, entity string) error {
	var count int64
	if err := tx.Raw(query, id).Scan(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return store.NotFound(entity)
	}
	return nil
}
