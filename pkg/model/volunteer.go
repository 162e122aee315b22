package model

import "time"

// ApplicationStatus is the review outcome of a volunteer application
type ApplicationStatus string

const (
	ApplicationPending    ApplicationStatus = "PENDING"
	ApplicationApproved   ApplicationStatus = "APPROVED"
	ApplicationRejected   ApplicationStatus = "REJECTED"
	ApplicationWaitlisted ApplicationStatus = "WAITLISTED"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected, ApplicationWaitlisted:
		return true
	}
	return false
}

// VolunteerApplication is a user's request to join a convoy committee. A
// user applies at most once per convoy and committee.
type VolunteerApplication struct {
	UserID          string            `gorm:"column:user_id;type:uuid;primaryKey" json:"userId"`
	ConvoyID        string            `gorm:"column:convoy_id;type:uuid;primaryKey" json:"convoyId"`
	CommitteeID     string            `gorm:"column:committee_id;type:uuid;primaryKey" json:"committeeId"`
	Status          ApplicationStatus `gorm:"column:status;not null" json:"status"`
	RejectionReason *string           `gorm:"column:rejection_reason" json:"rejectionReason"`
	IsBlocked       bool              `gorm:"column:is_blocked;not null" json:"isBlocked"`
	CreatedAt       time.Time         `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt       time.Time         `gorm:"column:updated_at" json:"updatedAt"`
}

func (VolunteerApplication) TableName() string {
	return "volunteer_applications"
}

// VolunteerParticipantRole is the convoy role given to approved volunteers
const VolunteerParticipantRole = "Volunteer"
