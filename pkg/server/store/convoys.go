package store

import (
	"context"
	"time"

	"github.com/convoyrelief/convoyd/pkg/model"
)

// ConvoyUpdate holds the fields of a convoy update. Nil fields are left as is.
type ConvoyUpdate struct {
	Name         *string
	Goals        *string
	Requirements *string
	StartDate    *time.Time
	EndDate      *time.Time
	Status       *model.ConvoyStatus
}

// ConvoyStore abstracts convoy and participant storage operations
type ConvoyStore interface {
	// ListConvoys returns all convoys with their participants
	ListConvoys(ctx context.Context) ([]model.Convoy, error)

	// FindConvoy retrieves a convoy with its participants
	FindConvoy(ctx context.Context, id string) (*model.Convoy, error)

	CreateConvoy(ctx context.Context, c *model.Convoy) error

	UpdateConvoy(ctx context.Context, id string, update ConvoyUpdate) (*model.Convoy, error)

	// AddParticipant places a user on a convoy. The user, the convoy and the
	// committee must exist, checked in that order.
	AddParticipant(ctx context.Context, p *model.ConvoyParticipant) error

	SetParticipantStatus(ctx context.Context, id int64, status model.ParticipantStatus) (*model.ConvoyParticipant, error)

	RemoveParticipant(ctx context.Context, id int64) error
}
