package gorm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/server/store"
)

// Ensure ConvoyStore implements store.ConvoyStore
var _ store.ConvoyStore = (*ConvoyStore)(nil)

const convoyColumns = `SELECT id, name, goals, requirements, start_date, end_date, status, created_at, updated_at FROM convoys`

const participantColumns = `
	SELECT cp.id, cp.convoy_id, cp.user_id, cp.committee_id, cp.role, cp.status,
	       u.username, u.email, cp.created_at, cp.updated_at
	FROM convoy_participants cp
	JOIN users u ON u.id = cp.user_id
`

// ConvoyStore implements store.ConvoyStore using GORM
type ConvoyStore struct {
	db *gorm.DB
}

// NewConvoyStore creates a new ConvoyStore
func NewConvoyStore(db *gorm.DB) *ConvoyStore {
	return &ConvoyStore{db: db}
}

// ListConvoys returns all convoys ordered by start date, with participants
func (s *ConvoyStore) ListConvoys(ctx context.Context) ([]model.Convoy, error) {
	db := s.db.WithContext(ctx)

	convoys := make([]model.Convoy, 0)
	if err := db.Raw(convoyColumns + ` ORDER BY start_date, name`).Scan(&convoys).Error; err != nil {
		return nil, err
	}

	var participants []model.ConvoyParticipant
	if err := db.Raw(participantColumns + ` ORDER BY cp.id`).Scan(&participants).Error; err != nil {
		return nil, err
	}
	byConvoy := make(map[string][]model.ConvoyParticipant, len(convoys))
	for _, p := range participants {
		byConvoy[p.ConvoyID] = append(byConvoy[p.ConvoyID], p)
	}
	for i := range convoys {
		convoys[i].Participants = byConvoy[convoys[i].ID]
		if convoys[i].Participants == nil {
			convoys[i].Participants = []model.ConvoyParticipant{}
		}
	}
	return convoys, nil
}

// FindConvoy retrieves a convoy with its participants
func (s *ConvoyStore) FindConvoy(ctx context.Context, id string) (*model.Convoy, error) {
	return findConvoy(s.db.WithContext(ctx), id)
}

func findConvoy(db *gorm.DB, id string) (*model.Convoy, error) {
	var convoy model.Convoy
	res := db.Raw(convoyColumns+` WHERE id = ?`, id).Scan(&convoy)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.NotFound("convoy")
	}

	convoy.Participants = make([]model.ConvoyParticipant, 0)
	err := db.Raw(participantColumns+` WHERE cp.convoy_id = ? ORDER BY cp.id`, id).Scan(&convoy.Participants).Error
	if err != nil {
		return nil, err
	}
	return &convoy, nil
}

// CreateConvoy stores a convoy
func (s *ConvoyStore) CreateConvoy(ctx context.Context, c *model.Convoy) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Exec(
		`INSERT INTO convoys (id, name, goals, requirements, start_date, end_date, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Goals, c.Requirements, c.StartDate, c.EndDate, c.Status, now, now,
	).Error
	if err != nil {
		return mapError(err, "convoy", "")
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Participants = []model.ConvoyParticipant{}
	return nil
}

// UpdateConvoy applies an update to a convoy
func (s *ConvoyStore) UpdateConvoy(ctx context.Context, id string, update store.ConvoyUpdate) (*model.Convoy, error) {
	var updated *model.Convoy
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`UPDATE convoys SET name = COALESCE(?, name), goals = COALESCE(?, goals), requirements = COALESCE(?, requirements),
			 start_date = COALESCE(?, start_date), end_date = COALESCE(?, end_date), status = COALESCE(?, status), updated_at = ?
			 WHERE id = ?`,
			update.Name, update.Goals, update.Requirements, update.StartDate, update.EndDate, update.Status, time.Now().UTC(), id,
		)
		if res.Error != nil {
			return mapError(res.Error, "convoy", "")
		}
		if res.RowsAffected == 0 {
			return store.NotFound("convoy")
		}
		var err error
		updated, err = findConvoy(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddParticipant places an active participant on a convoy
func (s *ConvoyStore) AddParticipant(ctx context.Context, p *model.ConvoyParticipant) error {
	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireMembers(tx, p.UserID, p.ConvoyID, p.CommitteeID); err != nil {
			return err
		}
		if p.Status == "" {
			p.Status = model.ParticipantActive
		}
		res := tx.Raw(
			`INSERT INTO convoy_participants (convoy_id, user_id, committee_id, role, status, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
			p.ConvoyID, p.UserID, p.CommitteeID, p.Role, p.Status, now, now,
		).Scan(&p.ID)
		if res.Error != nil {
			return mapError(res.Error, "participant", "")
		}
		p.CreatedAt = now
		p.UpdatedAt = now
		return nil
	})
}

// SetParticipantStatus updates the status of a participant
func (s *ConvoyStore) SetParticipantStatus(ctx context.Context, id int64, status model.ParticipantStatus) (*model.ConvoyParticipant, error) {
	db := s.db.WithContext(ctx)
	res := db.Exec(`UPDATE convoy_participants SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now().UTC(), id)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.NotFound("participant")
	}

	var p model.ConvoyParticipant
	if err := db.Raw(participantColumns+` WHERE cp.id = ?`, id).Scan(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// RemoveParticipant deletes a participant
func (s *ConvoyStore) RemoveParticipant(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Exec(`DELETE FROM convoy_participants WHERE id = ?`, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.NotFound("participant")
	}
	return nil
}

// requireMembers checks that the user, convoy and committee an assignment
// refers to exist, reporting the first missing one.
func requireMembers(tx *gorm.DB, userID, convoyID, committeeID string) error {
	if err := requireExists(tx, `SELECT count(*) FROM users WHERE id = ?`, userID, "user"); err != nil {
		return err
	}
	if err := requireExists(tx, `SELECT count(*) FROM convoys WHERE id = ?`, convoyID, "convoy"); err != nil {
		return err
	}
	return requireExists(tx, `SELECT count(*) FROM committees WHERE id = ?`, committeeID, "committee")
}
