package gorm

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/server/store"
)

// Ensure VolunteerStore implements store.VolunteerStore
var _ store.VolunteerStore = (*VolunteerStore)(nil)

const applicationColumns = `SELECT user_id, convoy_id, committee_id, status, rejection_reason, is_blocked, created_at, updated_at FROM volunteer_applications`

const applicationKeyFilter = ` WHERE user_id = ? AND convoy_id = ? AND committee_id = ?`

// VolunteerStore implements store.VolunteerStore using GORM
type VolunteerStore struct {
	db *gorm.DB
}

// NewVolunteerStore creates a new VolunteerStore
func NewVolunteerStore(db *gorm.DB) *VolunteerStore {
	return &VolunteerStore{db: db}
}

// ListApplications returns every application, oldest first
func (s *VolunteerStore) ListApplications(ctx context.Context) ([]model.VolunteerApplication, error) {
	return s.listApplications(ctx, applicationColumns+` ORDER BY created_at`)
}

// ListApplicationsByUser returns the applications of a user
func (s *VolunteerStore) ListApplicationsByUser(ctx context.Context, userID string) ([]model.VolunteerApplication, error) {
	return s.listApplications(ctx, applicationColumns+` WHERE user_id = ? ORDER BY created_at`, userID)
}

// ListApplicationsByConvoy returns the applications for a convoy
func (s *VolunteerStore) ListApplicationsByConvoy(ctx context.Context, convoyID string) ([]model.VolunteerApplication, error) {
	return s.listApplications(ctx, applicationColumns+` WHERE convoy_id = ? ORDER BY created_at`, convoyID)
}

func (s *VolunteerStore) listApplications(ctx context.Context, query string, args ...interface{}) ([]model.VolunteerApplication, error) {
	applications := make([]model.VolunteerApplication, 0)
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

// CreateApplication stores a pending application
func (s *VolunteerStore) CreateApplication(ctx context.Context, a *model.VolunteerApplication) error {
	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireMembers(tx, a.UserID, a.ConvoyID, a.CommitteeID); err != nil {
			return err
		}
		a.Status = model.ApplicationPending
		err := tx.Exec(
			`INSERT INTO volunteer_applications (user_id, convoy_id, committee_id, status, is_blocked, created_at, updated_at) VALUES (?, ?, ?, ?, false, ?, ?)`,
			a.UserID, a.ConvoyID, a.CommitteeID, a.Status, now, now,
		).Error
		if err != nil {
			return mapError(err, "application", "")
		}
		a.CreatedAt = now
		a.UpdatedAt = now
		return nil
	})
}

// ReviewApplication sets an application's status and, on approval, adds the
// applicant to the convoy. An existing participant row is left untouched.
func (s *VolunteerStore) ReviewApplication(ctx context.Context, key store.ApplicationKey, status model.ApplicationStatus, rejectionReason *string) (*model.VolunteerApplication, error) {
	if status != model.ApplicationRejected {
		rejectionReason = nil
	}
	now := time.Now().UTC()

	var reviewed *model.VolunteerApplication
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`UPDATE volunteer_applications SET status = ?, rejection_reason = ?, updated_at = ?`+applicationKeyFilter,
			status, rejectionReason, now, key.UserID, key.ConvoyID, key.CommitteeID,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.NotFound("application")
		}

		if status == model.ApplicationApproved {
			err := tx.Exec(
				`INSERT INTO convoy_participants (convoy_id, user_id, committee_id, role, status, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT ON CONSTRAINT convoy_participants_member_key DO NOTHING`,
				key.ConvoyID, key.UserID, key.CommitteeID, model.VolunteerParticipantRole, model.ParticipantActive, now, now,
			).Error
			if err != nil {
				return mapError(err, "participant", "")
			}
		}

		var err error
		reviewed, err = findApplication(tx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}

// BlockVolunteer blocks an application and deactivates its participant
func (s *VolunteerStore) BlockVolunteer(ctx context.Context, key store.ApplicationKey) (*model.VolunteerApplication, error) {
	now := time.Now().UTC()

	var blocked *model.VolunteerApplication
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`UPDATE volunteer_applications SET is_blocked = true, updated_at = ?`+applicationKeyFilter,
			now, key.UserID, key.ConvoyID, key.CommitteeID,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.NotFound("application")
		}

		err := tx.Exec(
			`UPDATE convoy_participants SET status = ?, updated_at = ?`+applicationKeyFilter,
			model.ParticipantInactive, now, key.UserID, key.ConvoyID, key.CommitteeID,
		).Error
		if err != nil {
			return err
		}

		blocked, err = findApplication(tx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return blocked, nil
}

func findApplication(db *gorm.DB, key store.ApplicationKey) (*model.VolunteerApplication, error) {
	var a model.VolunteerApplication
	res := db.Raw(applicationColumns+applicationKeyFilter, key.UserID, key.ConvoyID, key.CommitteeID).Scan(&a)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.NotFound("application")
	}
	return &a, nil
}
