package gorm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/server/store"
)

// Ensure CommitteeStore implements store.CommitteeStore
var _ store.CommitteeStore = (*CommitteeStore)(nil)

const committeeColumns = `SELECT id, name, description, created_at, updated_at FROM committees`

const memberColumns = `
	SELECT cm.committee_id, cm.user_id, u.username, u.email, u.is_active, cm.created_at
	FROM committee_members cm
	JOIN users u ON u.id = cm.user_id
`

// CommitteeStore implements store.CommitteeStore using GORM
type CommitteeStore struct {
	db *gorm.DB
}

// NewCommitteeStore creates a new CommitteeStore
func NewCommitteeStore(db *gorm.DB) *CommitteeStore {
	return &CommitteeStore{db: db}
}

// ListCommittees returns all committees ordered by name, with members
func (s *CommitteeStore) ListCommittees(ctx context.Context) ([]model.Committee, error) {
	db := s.db.WithContext(ctx)

	committees := make([]model.Committee, 0)
	if err := db.Raw(committeeColumns + ` ORDER BY name`).Scan(&committees).Error; err != nil {
		return nil, err
	}

	var members []model.CommitteeMember
	if err := db.Raw(memberColumns + ` ORDER BY u.username`).Scan(&members).Error; err != nil {
		return nil, err
	}
	byCommittee := make(map[string][]model.CommitteeMember, len(committees))
	for _, m := range members {
		byCommittee[m.CommitteeID] = append(byCommittee[m.CommitteeID], m)
	}
	for i := range committees {
		committees[i].Members = byCommittee[committees[i].ID]
		if committees[i].Members == nil {
			committees[i].Members = []model.CommitteeMember{}
		}
	}
	return committees, nil
}

// FindCommittee retrieves a committee with its members
func (s *CommitteeStore) FindCommittee(ctx context.Context, id string) (*model.Committee, error) {
	return findCommittee(s.db.WithContext(ctx), id)
}

func findCommittee(db *gorm.DB, id string) (*model.Committee, error) {
	var committee model.Committee
	res := db.Raw(committeeColumns+` WHERE id = ?`, id).Scan(&committee)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.NotFound("committee")
	}

	committee.Members = make([]model.CommitteeMember, 0)
	err := db.Raw(memberColumns+` WHERE cm.committee_id = ? ORDER BY u.username`, id).Scan(&committee.Members).Error
	if err != nil {
		return nil, err
	}
	return &committee, nil
}

// CreateCommittee creates a committee and adds the given members
func (s *CommitteeStore) CreateCommittee(ctx context.Context, c *model.Committee, memberIDs []string) (*model.Committee, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	var created *model.Committee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(
			`INSERT INTO committees (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Description, now, now,
		).Error
		if err != nil {
			return mapError(err, "committee", "")
		}
		if err := insertMembers(tx, c.ID, memberIDs, now); err != nil {
			return err
		}
		created, err = findCommittee(tx, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateCommittee applies an update to a committee
func (s *CommitteeStore) UpdateCommittee(ctx context.Context, id string, update store.CommitteeUpdate) (*model.Committee, error) {
	now := time.Now().UTC()

	var updated *model.Committee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`UPDATE committees SET name = COALESCE(?, name), description = COALESCE(?, description), updated_at = ? WHERE id = ?`,
			update.Name, update.Description, now, id,
		)
		if res.Error != nil {
			return mapError(res.Error, "committee", "")
		}
		if res.RowsAffected == 0 {
			return store.NotFound("committee")
		}
		if update.MemberIDs != nil {
			if err := tx.Exec(`DELETE FROM committee_members WHERE committee_id = ?`, id).Error; err != nil {
				return err
			}
			if err := insertMembers(tx, id, update.MemberIDs, now); err != nil {
				return err
			}
		}
		var err error
		updated, err = findCommittee(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddMember adds a user to a committee
func (s *CommitteeStore) AddMember(ctx context.Context, committeeID, userID string) (*model.CommitteeMember, error) {
	member := &model.CommitteeMember{CommitteeID: committeeID, UserID: userID, CreatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireExists(tx, `SELECT count(*) FROM users WHERE id = ?`, userID, "user"); err != nil {
			return err
		}
		if err := requireExists(tx, `SELECT count(*) FROM committees WHERE id = ?`, committeeID, "committee"); err != nil {
			return err
		}
		return insertMembers(tx, committeeID, []string{userID}, member.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// RemoveMember removes a user from a committee
func (s *CommitteeStore) RemoveMember(ctx context.Context, committeeID, userID string) error {
	res := s.db.WithContext(ctx).Exec(
		`DELETE FROM committee_members WHERE committee_id = ? AND user_id = ?`, committeeID, userID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.NotFound("member")
	}
	return nil
}

func insertMembers(tx *gorm.DB, committeeID string, userIDs []string, now time.Time) error {
	for _, userID := range userIDs {
		err := tx.Exec(
			`INSERT INTO committee_members (committee_id, user_id, created_at) VALUES (?, ?, ?)`,
			committeeID, userID, now,
		).Error
		if err != nil {
			return mapError(err, "member", "user")
		}
	}
	return nil
}
