package store

import (
	"context"

	"github.com/convoyrelief/convoyd/pkg/model"
)

// ApplicationKey identifies a volunteer application
type ApplicationKey struct {
	UserID      string
	ConvoyID    string
	CommitteeID string
}

// VolunteerStore abstracts volunteer application storage operations
type VolunteerStore interface {
	ListApplications(ctx context.Context) ([]model.VolunteerApplication, error)

	ListApplicationsByUser(ctx context.Context, userID string) ([]model.VolunteerApplication, error)

	ListApplicationsByConvoy(ctx context.Context, convoyID string) ([]model.VolunteerApplication, error)

	// CreateApplication stores a pending application. The user, the convoy
	// and the committee must exist, checked in that order.
	CreateApplication(ctx context.Context, a *model.VolunteerApplication) error

	// ReviewApplication sets the status of an application. The rejection
	// reason is kept only for rejections. Approval places the applicant on
	// the convoy as an active participant.
	ReviewApplication(ctx context.Context, key ApplicationKey, status model.ApplicationStatus, rejectionReason *string) (*model.VolunteerApplication, error)

	// BlockVolunteer blocks an application and deactivates the matching
	// convoy participant, if any.
	BlockVolunteer(ctx context.Context, key ApplicationKey) (*model.VolunteerApplication, error)
}
