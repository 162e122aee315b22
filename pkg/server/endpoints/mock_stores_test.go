package endpoints

import (
	"context"

	"github.com/jackc/pgtype"
	"github.com/stretchr/testify/mock"

	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/server/store"
)

// MockSubjectStore implements store.SubjectStore for testing using testify/mock
type MockSubjectStore struct {
	mock.Mock
}

func (m *MockSubjectStore) FindSubjectByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockSubjectStore) FindSubjectByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockSubjectStore) CreateSubject(ctx context.Context, u *model.User, defaultRole string) error {
	args := m.Called(ctx, u, defaultRole)
	return args.Error(0)
}

func (m *MockSubjectStore) ActivateSubject(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockSubjectStore) ReplaceSubjectRoles(ctx context.Context, id string, roleID string) error {
	args := m.Called(ctx, id, roleID)
	return args.Error(0)
}

func (m *MockSubjectStore) SetSubjectPassword(ctx context.Context, id string, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// MockRolesStore implements store.RolesStore for testing using testify/mock
type MockRolesStore struct {
	mock.Mock
}

func (m *MockRolesStore) ListRoles(ctx context.Context) ([]model.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Role), args.Error(1)
}

func (m *MockRolesStore) FindRole(ctx context.Context, id string) (*model.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockRolesStore) CreateRole(ctx context.Context, r *model.Role, permissionIDs []string) (*model.Role, error) {
	args := m.Called(ctx, r, permissionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockRolesStore) UpdateRole(ctx context.Context, id string, update store.RoleUpdate) (*model.Role, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockRolesStore) DeleteRole(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRolesStore) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Permission), args.Error(1)
}

func (m *MockRolesStore) CreatePermission(ctx context.Context, p *model.Permission) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRolesStore) SetRolePermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	args := m.Called(ctx, roleID, permissionIDs)
	return args.Error(0)
}

func (m *MockRolesStore) RoleHolders(ctx context.Context, roleID string) ([]string, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockConvoyStore implements store.ConvoyStore for testing using testify/mock
type MockConvoyStore struct {
	mock.Mock
}

func (m *MockConvoyStore) ListConvoys(ctx context.Context) ([]model.Convoy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Convoy), args.Error(1)
}

func (m *MockConvoyStore) FindConvoy(ctx context.Context, id string) (*model.Convoy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Convoy), args.Error(1)
}

func (m *MockConvoyStore) CreateConvoy(ctx context.Context, c *model.Convoy) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockConvoyStore) UpdateConvoy(ctx context.Context, id string, update store.ConvoyUpdate) (*model.Convoy, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Convoy), args.Error(1)
}

func (m *MockConvoyStore) AddParticipant(ctx context.Context, p *model.ConvoyParticipant) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockConvoyStore) SetParticipantStatus(ctx context.Context, id int64, status model.ParticipantStatus) (*model.ConvoyParticipant, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConvoyParticipant), args.Error(1)
}

func (m *MockConvoyStore) RemoveParticipant(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockCommitteeStore implements store.CommitteeStore for testing using testify/mock
type MockCommitteeStore struct {
	mock.Mock
}

func (m *MockCommitteeStore) ListCommittees(ctx context.Context) ([]model.Committee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Committee), args.Error(1)
}

func (m *MockCommitteeStore) FindCommittee(ctx context.Context, id string) (*model.Committee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Committee), args.Error(1)
}

func (m *MockCommitteeStore) CreateCommittee(ctx context.Context, c *model.Committee, memberIDs []string) (*model.Committee, error) {
	args := m.Called(ctx, c, memberIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Committee), args.Error(1)
}

func (m *MockCommitteeStore) UpdateCommittee(ctx context.Context, id string, update store.CommitteeUpdate) (*model.Committee, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Committee), args.Error(1)
}

func (m *MockCommitteeStore) AddMember(ctx context.Context, committeeID, userID string) (*model.CommitteeMember, error) {
	args := m.Called(ctx, committeeID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CommitteeMember), args.Error(1)
}

func (m *MockCommitteeStore) RemoveMember(ctx context.Context, committeeID, userID string) error {
	return m.Called(ctx, committeeID, userID).Error(0)
}

// MockVolunteerStore implements store.VolunteerStore for testing using testify/mock
type MockVolunteerStore struct {
	mock.Mock
}

func (m *MockVolunteerStore) applications(args mock.Arguments) ([]model.VolunteerApplication, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VolunteerApplication), args.Error(1)
}

func (m *MockVolunteerStore) ListApplications(ctx context.Context) ([]model.VolunteerApplication, error) {
	return m.applications(m.Called(ctx))
}

func (m *MockVolunteerStore) ListApplicationsByUser(ctx context.Context, userID string) ([]model.VolunteerApplication, error) {
	return m.applications(m.Called(ctx, userID))
}

func (m *MockVolunteerStore) ListApplicationsByConvoy(ctx context.Context, convoyID string) ([]model.VolunteerApplication, error) {
	return m.applications(m.Called(ctx, convoyID))
}

func (m *MockVolunteerStore) CreateApplication(ctx context.Context, a *model.VolunteerApplication) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockVolunteerStore) ReviewApplication(ctx context.Context, key store.ApplicationKey, status model.ApplicationStatus, rejectionReason *string) (*model.VolunteerApplication, error) {
	args := m.Called(ctx, key, status, rejectionReason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VolunteerApplication), args.Error(1)
}

func (m *MockVolunteerStore) BlockVolunteer(ctx context.Context, key store.ApplicationKey) (*model.VolunteerApplication, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VolunteerApplication), args.Error(1)
}

// MockVillageStore implements store.VillageStore for testing using testify/mock
type MockVillageStore struct {
	mock.Mock
}

func (m *MockVillageStore) ListVillages(ctx context.Context) ([]model.Village, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Village), args.Error(1)
}

func (m *MockVillageStore) FindVillage(ctx context.Context, id string) (*model.Village, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Village), args.Error(1)
}

func (m *MockVillageStore) CreateVillage(ctx context.Context, v *model.Village) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVillageStore) UpdateVillage(ctx context.Context, id string, update store.VillageUpdate) (*model.Village, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Village), args.Error(1)
}

func (m *MockVillageStore) RecordVillageData(ctx context.Context, d *model.VillageData) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockVillageStore) FindVillageData(ctx context.Context, id string) (*model.VillageData, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VillageData), args.Error(1)
}

func (m *MockVillageStore) UpdateVillageData(ctx context.Context, id string, data pgtype.JSONB) (*model.VillageData, error) {
	args := m.Called(ctx, id, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VillageData), args.Error(1)
}
