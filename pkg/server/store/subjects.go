package store

import (
	"context"

	"github.com/convoyrelief/convoyd/pkg/model"
)

// SubjectStore abstracts user storage operations
type SubjectStore interface {
	// FindSubjectByID retrieves a user with its roles and each role's
	// permissions loaded. Returns ErrNotFound if the user doesn't exist.
	FindSubjectByID(ctx context.Context, id string) (*model.User, error)

	// FindSubjectByEmail retrieves a user with its roles by email.
	// Returns ErrNotFound if the user doesn't exist.
	FindSubjectByEmail(ctx context.Context, email string) (*model.User, error)

	// CreateSubject creates an inactive user and assigns the named default
	// role, creating the role if needed. Returns ErrConflict on a duplicate
	// email or phone number.
	CreateSubject(ctx context.Context, u *model.User, defaultRole string) error

	// ActivateSubject marks a user active and returns it.
	ActivateSubject(ctx context.Context, id string) (*model.User, error)

	// ReplaceSubjectRoles removes every role assignment of the user and
	// assigns the given role, atomically.
	ReplaceSubjectRoles(ctx context.Context, id string, roleID string) error

	// SetSubjectPassword replaces the stored password hash of a user.
	SetSubjectPassword(ctx context.Context, id string, passwordHash string) error
}
