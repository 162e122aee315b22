package store

import (
	"context"

	"github.com/jackc/pgtype"

	"github.com/convoyrelief/convoyd/pkg/model"
)

// VillageUpdate holds the fields of a village update. Nil fields are left as is.
type VillageUpdate struct {
	Name     *string
	Location *string
}

// VillageStore abstracts village and village data storage operations
type VillageStore interface {
	// ListVillages returns all villages with their recorded data
	ListVillages(ctx context.Context) ([]model.Village, error)

	// FindVillage retrieves a village with its recorded data
	FindVillage(ctx context.Context, id string) (*model.Village, error)

	CreateVillage(ctx context.Context, v *model.Village) error

	UpdateVillage(ctx context.Context, id string, update VillageUpdate) (*model.Village, error)

	// RecordVillageData stores a document for a village. The village and the
	// recording user must exist, checked in that order.
	RecordVillageData(ctx context.Context, d *model.VillageData) error

	FindVillageData(ctx context.Context, id string) (*model.VillageData, error)

	UpdateVillageData(ctx context.Context, id string, data pgtype.JSONB) (*model.VillageData, error)
}
