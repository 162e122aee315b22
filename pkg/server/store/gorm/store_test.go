package gorm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/server/store"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	return gormDB, mock
}

var (
	userRowColumns  = []string{"id", "username", "email", "password", "phone_number", "is_active", "created_at", "updated_at"}
	grantRowColumns = []string{"role_id", "role_name", "role_description", "role_created_at", "role_updated_at", "permission_id", "permission_name", "permission_description"}
)

func TestSubjectStore_FindSubjectByID(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewSubjectStore(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, username, email, password, phone_number, is_active, created_at, updated_at FROM users WHERE id`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u-1", "alice", "alice@example.com", "hash", nil, true, now, now))
	mock.ExpectQuery(`FROM user_roles ur`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(grantRowColumns).
			AddRow("r-1", "ADMIN", nil, now, now, "p-1", "createConvoy", "Allows creating a new convoy.").
			AddRow("r-1", "ADMIN", nil, now, now, "p-2", "updateConvoy", "Allows updating convoy details.").
			AddRow("r-2", "EMPTY", nil, now, now, nil, nil, nil))

	user, err := s.FindSubjectByID(context.Background(), "u-1")
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.Nil(t, user.PhoneNumber)
	assert.True(t, user.IsActive)
	require.Len(t, user.Roles, 2)
	assert.Equal(t, "ADMIN", user.Roles[0].Name)
	require.Len(t, user.Roles[0].Permissions, 2)
	assert.Equal(t, "createConvoy", user.Roles[0].Permissions[0].Name)
	assert.Equal(t, "updateConvoy", user.Roles[0].Permissions[1].Name)
	assert.Equal(t, "EMPTY", user.Roles[1].Name)
	assert.Empty(t, user.Roles[1].Permissions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectStore_FindSubjectByID_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewSubjectStore(db)

	mock.ExpectQuery(`FROM users WHERE id`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := s.FindSubjectByID(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, "user", store.EntityOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectStore_FindSubjectByID_QueryError(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewSubjectStore(db)

	mock.ExpectQuery(`FROM users WHERE id`).
		WithArgs("u-1").
		WillReturnError(errors.New("connection reset"))

	_, err := s.FindSubjectByID(context.Background(), "u-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestSubjectStore_FindSubjectByEmail(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewSubjectStore(db)
	now := time.Now()

	mock.ExpectQuery(`FROM users WHERE email`).
		WithArgs("bob@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u-2", "bob", "bob@example.com", "hash", "+100", false, now, now))
	mock.ExpectQuery(`FROM user_roles ur`).
		WithArgs("u-2").
		WillReturnRows(sqlmock.NewRows(grantRowColumns))

	user, err := s.FindSubjectByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-2", user.ID)
	require.NotNil(t, user.PhoneNumber)
	assert.Equal(t, "+100", *user.PhoneNumber)
	assert.False(t, user.IsActive)
	assert.Empty(t, user.Roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectStore_CreateSubject(t *testing.T) {
	t.Run("assigns existing default role", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewSubjectStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM roles WHERE name`).
			WithArgs("GUEST").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r-guest"))
		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(sqlmock.AnyArg(), "carol", "carol@example.com", "hash", nil, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO user_roles`).
			WithArgs(sqlmock.AnyArg(), "r-guest").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		u := &model.User{Username: "carol", Email: "carol@example.com", PasswordHash: "hash"}
		err := s.CreateSubject(context.Background(), u, "GUEST")
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		require.Len(t, u.Roles, 1)
		assert.Equal(t, "GUEST", u.Roles[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates missing default role", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewSubjectStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM roles WHERE name`).
			WithArgs("GUEST").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec(`INSERT INTO roles`).
			WithArgs(sqlmock.AnyArg(), "GUEST", defaultRoleDescription, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO users`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO user_roles`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		u := &model.User{Username: "dave", Email: "dave@example.com", PasswordHash: "hash"}
		require.NoError(t, s.CreateSubject(context.Background(), u, "GUEST"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewSubjectStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM roles WHERE name`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r-guest"))
		mock.ExpectExec(`INSERT INTO users`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
		mock.ExpectRollback()

		u := &model.User{Username: "carol", Email: "carol@example.com", PasswordHash: "hash"}
		err := s.CreateSubject(context.Background(), u, "GUEST")
		assert.ErrorIs(t, err, store.ErrConflict)
		assert.Equal(t, "email", store.FieldOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate phone number is a conflict", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewSubjectStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM roles WHERE name`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r-guest"))
		mock.ExpectExec(`INSERT INTO users`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_phone_number_key"})
		mock.ExpectRollback()

		phone := "+123"
		u := &model.User{Username: "carol", Email: "carol@example.com", PasswordHash: "hash", PhoneNumber: &phone}
		err := s.CreateSubject(context.Background(), u, "GUEST")
		assert.ErrorIs(t, err, store.ErrConflict)
		assert.Equal(t, "phone number", store.FieldOf(err))
	})
}

func TestSubjectStore_ActivateSubject(t *testing.T) {
	t.Run("activates and reloads", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewSubjectStore(db)
		now := time.Now()

		mock.ExpectExec(`UPDATE users SET is_active = true`).
			WithArgs(sqlmock.AnyArg(), "u-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`FROM users WHERE id`).
			WithArgs("u-1").
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow("u-1", "alice", "alice@example.com", "hash", nil, true, now, now))
		mock.ExpectQuery(`FROM user_roles ur`).
			WithArgs("u-1").
			WillReturnRows(sqlmock.NewRows(grantRowColumns))

		user, err := s.ActivateSubject(context.Background(), "u-1")
		require.NoError(t, err)
		assert.True(t, user.IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewSubjectStore(db)

		mock.ExpectExec(`UPDATE users SET is_active = true`).
			WithArgs(sqlmock.AnyArg(), "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := s.ActivateSubject(context.Background(), "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSubjectStore_ReplaceSubjectRoles(t *testing.T) {
	t.Run("replaces all assignments", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewSubjectStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM users WHERE id`).
			WithArgs("u-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT count\(\*\) FROM roles WHERE id`).
			WithArgs("r-2").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectExec(`DELETE FROM user_roles WHERE user_id`).
			WithArgs("u-1").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`INSERT INTO user_roles`).
			WithArgs("u-1", "r-2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, s.ReplaceSubjectRoles(context.Background(), "u-1", "r-2"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown role rolls back", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewSubjectStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM users WHERE id`).
			WithArgs("u-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT count\(\*\) FROM roles WHERE id`).
			WithArgs("r-missing").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectRollback()

		err := s.ReplaceSubjectRoles(context.Background(), "u-1", "r-missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Equal(t, "role", store.EntityOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user rolls back", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewSubjectStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM users WHERE id`).
			WithArgs("u-missing").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectRollback()

		err := s.ReplaceSubjectRoles(context.Background(), "u-missing", "r-1")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Equal(t, "user", store.EntityOf(err))
	})
}

func TestRolesStore_ListRoles(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewRolesStore(db)
	now := time.Now()
	desc := "Default role for new users"

	mock.ExpectQuery(`FROM roles r`).
		WillReturnRows(sqlmock.NewRows(grantRowColumns).
			AddRow("r-1", "ADMIN", nil, now, now, "p-1", "viewRoles", "Allows viewing all roles.").
			AddRow("r-2", "GUEST", desc, now, now, nil, nil, nil))

	roles, err := s.ListRoles(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "viewRoles", roles[0].Permissions[0].Name)
	require.NotNil(t, roles[1].Description)
	assert.Equal(t, desc, *roles[1].Description)
	assert.NotNil(t, roles[1].Permissions)
	assert.Empty(t, roles[1].Permissions)
}

func TestRolesStore_FindRole_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewRolesStore(db)

	mock.ExpectQuery(`WHERE r.id`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(grantRowColumns))

	_, err := s.FindRole(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRolesStore_CreateRole(t *testing.T) {
	t.Run("with permissions", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewRolesStore(db)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO roles`).
			WithArgs(sqlmock.AnyArg(), "DISPATCHER", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO role_permissions`).
			WithArgs(sqlmock.AnyArg(), "p-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`WHERE r.id`).
			WillReturnRows(sqlmock.NewRows(grantRowColumns).
				AddRow("r-new", "DISPATCHER", nil, now, now, "p-1", "createConvoy", ""))
		mock.ExpectCommit()

		role, err := s.CreateRole(context.Background(), &model.Role{Name: "DISPATCHER"}, []string{"p-1", "p-1"})
		require.NoError(t, err)
		assert.Equal(t, "DISPATCHER", role.Name)
		require.Len(t, role.Permissions, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown permission", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewRolesStore(db)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO roles`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO role_permissions`).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		mock.ExpectRollback()

		_, err := s.CreateRole(context.Background(), &model.Role{Name: "DISPATCHER"}, []string{"p-missing"})
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Equal(t, "permission", store.EntityOf(err))
	})

	t.Run("duplicate name", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewRolesStore(db)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO roles`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "roles_name_key"})
		mock.ExpectRollback()

		_, err := s.CreateRole(context.Background(), &model.Role{Name: "ADMIN"}, nil)
		assert.ErrorIs(t, err, store.ErrConflict)
		assert.Equal(t, "name", store.FieldOf(err))
	})
}

func TestRolesStore_UpdateRole(t *testing.T) {
	t.Run("replaces permissions when given", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewRolesStore(db)
		now := time.Now()
		name := "OPERATOR"

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE roles SET name`).
			WithArgs("OPERATOR", nil, sqlmock.AnyArg(), "r-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM role_permissions WHERE role_id`).
			WithArgs("r-1").
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectQuery(`WHERE r.id`).
			WithArgs("r-1").
			WillReturnRows(sqlmock.NewRows(grantRowColumns).
				AddRow("r-1", "OPERATOR", nil, now, now, nil, nil, nil))
		mock.ExpectCommit()

		role, err := s.UpdateRole(context.Background(), "r-1", store.RoleUpdate{Name: &name, PermissionIDs: []string{}})
		require.NoError(t, err)
		assert.Equal(t, "OPERATOR", role.Name)
		assert.Empty(t, role.Permissions)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown role", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewRolesStore(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE roles SET name`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := s.UpdateRole(context.Background(), "missing", store.RoleUpdate{})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestRolesStore_DeleteRole(t *testing.T) {
	t.Run("assigned role is in use", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewRolesStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM user_roles WHERE role_id`).
			WithArgs("r-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectRollback()

		err := s.DeleteRole(context.Background(), "r-1")
		assert.ErrorIs(t, err, store.ErrInUse)
		var inUse *store.InUseError
		require.ErrorAs(t, err, &inUse)
		assert.Equal(t, int64(3), inUse.Count)
	})

	t.Run("unassigned role is removed", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewRolesStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM user_roles WHERE role_id`).
			WithArgs("r-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM role_permissions WHERE role_id`).
			WithArgs("r-1").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM roles WHERE id`).
			WithArgs("r-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, s.DeleteRole(context.Background(), "r-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRolesStore_Permissions(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewRolesStore(db)

		mock.ExpectQuery(`SELECT id, name, description, created_at FROM permissions ORDER BY name`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at"}).
				AddRow("p-1", "activateUser", "Allows activating a user account.", time.Now()))

		permissions, err := s.ListPermissions(context.Background())
		require.NoError(t, err)
		require.Len(t, permissions, 1)
		assert.Equal(t, "activateUser", permissions[0].Name)
	})

	t.Run("create duplicate", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewRolesStore(db)

		mock.ExpectExec(`INSERT INTO permissions`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "permissions_name_key"})

		err := s.CreatePermission(context.Background(), &model.Permission{Name: "activateUser"})
		assert.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("set role permissions", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewRolesStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM roles WHERE id`).
			WithArgs("r-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectExec(`DELETE FROM role_permissions WHERE role_id`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO role_permissions`).
			WithArgs("r-1", "p-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO role_permissions`).
			WithArgs("r-1", "p-2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, s.SetRolePermissions(context.Background(), "r-1", []string{"p-1", "p-2"}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHealthStore_CheckConnectivity(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewHealthStore(db)

	mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, s.CheckConnectivity(context.Background()))

	mock.ExpectExec(`SELECT 1`).WillReturnError(errors.New("down"))
	assert.Error(t, s.CheckConnectivity(context.Background()))
}
