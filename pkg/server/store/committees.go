package store

import (
	"context"

	"github.com/convoyrelief/convoyd/pkg/model"
)

// CommitteeUpdate holds the fields of a committee update. Nil fields are left
// as is. MemberIDs replaces the membership when non-nil.
type CommitteeUpdate struct {
	Name        *string
	Description *string
	MemberIDs   []string
}

// CommitteeStore abstracts committee and membership storage operations
type CommitteeStore interface {
	// ListCommittees returns all committees with their members
	ListCommittees(ctx context.Context) ([]model.Committee, error)

	// FindCommittee retrieves a committee with its members
	FindCommittee(ctx context.Context, id string) (*model.Committee, error)

	// CreateCommittee creates a committee with the given members
	CreateCommittee(ctx context.Context, c *model.Committee, memberIDs []string) (*model.Committee, error)

	UpdateCommittee(ctx context.Context, id string, update CommitteeUpdate) (*model.Committee, error)

	// AddMember adds a user to a committee. The user and the committee must
	// exist, checked in that order.
	AddMember(ctx context.Context, committeeID, userID string) (*model.CommitteeMember, error)

	RemoveMember(ctx context.Context, committeeID, userID string) error
}
