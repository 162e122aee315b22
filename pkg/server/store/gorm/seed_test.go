package gorm

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convoyrelief/convoyd/pkg/permission"
)

func expectCatalog(mock sqlmock.Sqlmock) {
	for _, p := range permission.All() {
		mock.ExpectQuery(`INSERT INTO permissions`).
			WithArgs(sqlmock.AnyArg(), p.String(), p.Description(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p-" + p.String()))
	}
}

func TestSeeder_Seed(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewSeeder(db)

	roles := []SeedRole{{
		Name:        "GUEST",
		Description: "Read-only access",
		Permissions: []permission.Permission{permission.PermissionViewRoles},
	}}
	users := []SeedUser{{Username: "guest", Email: "guest@example.com", PasswordHash: "hash", Role: "GUEST"}}

	mock.ExpectBegin()
	expectCatalog(mock)
	mock.ExpectQuery(`INSERT INTO roles`).
		WithArgs(sqlmock.AnyArg(), "GUEST", "Read-only access", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r-guest"))
	mock.ExpectExec(`INSERT INTO role_permissions`).
		WithArgs("r-guest", "p-viewRoles").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "guest", "guest@example.com", "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id FROM users WHERE email`).
		WithArgs("guest@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-guest"))
	mock.ExpectExec(`INSERT INTO user_roles`).
		WithArgs("u-guest", "r-guest").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Seed(context.Background(), roles, users))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeeder_UnknownRole(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewSeeder(db)

	mock.ExpectBegin()
	expectCatalog(mock)
	mock.ExpectQuery(`SELECT id FROM roles WHERE name`).
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := s.Seed(context.Background(), nil, []SeedUser{{Email: "x@example.com", Role: "NOPE"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role NOPE")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeeder_StoredRole(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewSeeder(db)

	mock.ExpectBegin()
	expectCatalog(mock)
	mock.ExpectQuery(`SELECT id FROM roles WHERE name`).
		WithArgs("GUEST").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r-guest"))
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id FROM users WHERE email`).
		WithArgs("dana@example.org").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-dana"))
	mock.ExpectExec(`INSERT INTO user_roles`).
		WithArgs("u-dana", "r-guest").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.Seed(context.Background(), nil, []SeedUser{{Username: "dana", Email: "dana@example.org", PasswordHash: "hash", Role: "GUEST"}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeeder_RollsBackOnFailure(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewSeeder(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO permissions`).WillReturnError(errors.New("permission denied for table permissions"))
	mock.ExpectRollback()

	err := s.Seed(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed permission")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBootstrapRoles(t *testing.T) {
	roles := BootstrapRoles("SUPER_ADMIN", "GUEST")
	require.Len(t, roles, 3)

	assert.Equal(t, "SUPER_ADMIN", roles[0].Name)
	assert.ElementsMatch(t, permission.All(), roles[0].Permissions)

	assert.Equal(t, "ADMIN", roles[1].Name)
	assert.NotContains(t, roles[1].Permissions, permission.PermissionDeleteRole)
	assert.Len(t, roles[1].Permissions, len(permission.All())-1)

	assert.Equal(t, "GUEST", roles[2].Name)
	assert.Contains(t, roles[2].Permissions, permission.PermissionViewRoles)
	assert.NotContains(t, roles[2].Permissions, permission.PermissionCreateRole)
}
