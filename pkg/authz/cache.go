package authz

import (
	"context"

	"github.com/convoyrelief/convoyd/pkg/identity"
)

// ProfileCache stores built profiles between requests. A miss is reported
// as (nil, nil).
type ProfileCache interface {
	Get(ctx context.Context, subjectID string) (*identity.Profile, error)
	Set(ctx context.Context, p *identity.Profile) error
	Invalidate(ctx context.Context, subjectID string) error
}
