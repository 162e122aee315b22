package gorm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"gorm.io/gorm"

	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/server/store"
)

// Ensure VillageStore implements store.VillageStore
var _ store.VillageStore = (*VillageStore)(nil)

const villageColumns = `SELECT id, name, location, created_at, updated_at FROM villages`

const villageDataColumns = `SELECT id, village_id, user_id, data, created_at, updated_at FROM village_data`

// VillageStore implements store.VillageStore using GORM
type VillageStore struct {
	db *gorm.DB
}

// NewVillageStore creates a new VillageStore
func NewVillageStore(db *gorm.DB) *VillageStore {
	return &VillageStore{db: db}
}

// ListVillages returns all villages ordered by name, with their data
func (s *VillageStore) ListVillages(ctx context.Context) ([]model.Village, error) {
	db := s.db.WithContext(ctx)

	villages := make([]model.Village, 0)
	if err := db.Raw(villageColumns + ` ORDER BY name`).Scan(&villages).Error; err != nil {
		return nil, err
	}

	var data []model.VillageData
	if err := db.Raw(villageDataColumns + ` ORDER BY created_at`).Scan(&data).Error; err != nil {
		return nil, err
	}
	byVillage := make(map[string][]model.VillageData, len(villages))
	for _, d := range data {
		byVillage[d.VillageID] = append(byVillage[d.VillageID], d)
	}
	for i := range villages {
		villages[i].Data = byVillage[villages[i].ID]
		if villages[i].Data == nil {
			villages[i].Data = []model.VillageData{}
		}
	}
	return villages, nil
}

// FindVillage retrieves a village with its data
func (s *VillageStore) FindVillage(ctx context.Context, id string) (*model.Village, error) {
	return findVillage(s.db.WithContext(ctx), id)
}

func findVillage(db *gorm.DB, id string) (*model.Village, error) {
	var village model.Village
	res := db.Raw(villageColumns+` WHERE id = ?`, id).Scan(&village)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.NotFound("village")
	}

	village.Data = make([]model.VillageData, 0)
	err := db.Raw(villageDataColumns+` WHERE village_id = ? ORDER BY created_at`, id).Scan(&village.Data).Error
	if err != nil {
		return nil, err
	}
	return &village, nil
}

// CreateVillage stores a village
func (s *VillageStore) CreateVillage(ctx context.Context, v *model.Village) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Exec(
		`INSERT INTO villages (id, name, location, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Location, now, now,
	).Error
	if err != nil {
		return mapError(err, "village", "")
	}
	v.CreatedAt = now
	v.UpdatedAt = now
	v.Data = []model.VillageData{}
	return nil
}

// UpdateVillage applies an update to a village
func (s *VillageStore) UpdateVillage(ctx context.Context, id string, update store.VillageUpdate) (*model.Village, error) {
	var updated *model.Village
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`UPDATE villages SET name = COALESCE(?, name), location = COALESCE(?, location), updated_at = ? WHERE id = ?`,
			update.Name, update.Location, time.Now().UTC(), id,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.NotFound("village")
		}
		var err error
		updated, err = findVillage(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RecordVillageData stores a document for a village
func (s *VillageStore) RecordVillageData(ctx context.Context, d *model.VillageData) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireExists(tx, `SELECT count(*) FROM villages WHERE id = ?`, d.VillageID, "village"); err != nil {
			return err
		}
		if err := requireExists(tx, `SELECT count(*) FROM users WHERE id = ?`, d.UserID, "user"); err != nil {
			return err
		}
		err := tx.Exec(
			`INSERT INTO village_data (id, village_id, user_id, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			d.ID, d.VillageID, d.UserID, d.Data, now, now,
		).Error
		if err != nil {
			return mapError(err, "village data", "")
		}
		d.CreatedAt = now
		d.UpdatedAt = now
		return nil
	})
}

// FindVillageData retrieves a recorded document
func (s *VillageStore) FindVillageData(ctx context.Context, id string) (*model.VillageData, error) {
	return findVillageData(s.db.WithContext(ctx), id)
}

func findVillageData(db *gorm.DB, id string) (*model.VillageData, error) {
	var d model.VillageData
	res := db.Raw(villageDataColumns+` WHERE id = ?`, id).Scan(&d)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.NotFound("village data")
	}
	return &d, nil
}

// UpdateVillageData replaces the document of a record
func (s *VillageStore) UpdateVillageData(ctx context.Context, id string, data pgtype.JSONB) (*model.VillageData, error) {
	db := s.db.WithContext(ctx)
	res := db.Exec(`UPDATE village_data SET data = ?, updated_at = ? WHERE id = ?`, data, time.Now().UTC(), id)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.NotFound("village data")
	}
	return findVillageData(db, id)
}
