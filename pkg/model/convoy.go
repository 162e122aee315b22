package model

import "time"

// ConvoyStatus is the lifecycle stage of a convoy
type ConvoyStatus string

const (
	ConvoyPlanning   ConvoyStatus = "PLANNING"
	ConvoyScheduled  ConvoyStatus = "SCHEDULED"
	ConvoyInProgress ConvoyStatus = "IN_PROGRESS"
	ConvoyCompleted  ConvoyStatus = "COMPLETED"
	ConvoyCanceled   ConvoyStatus = "CANCELED"
	ConvoyPostponed  ConvoyStatus = "POSTPONED"
)

func (s ConvoyStatus) Valid() bool {
	switch s {
	case ConvoyPlanning, ConvoyScheduled, ConvoyInProgress, ConvoyCompleted, ConvoyCanceled, ConvoyPostponed:
		return true
	}
	return false
}

// ParticipantStatus tracks whether a participant still takes part in a convoy
type ParticipantStatus string

const (
	ParticipantActive   ParticipantStatus = "ACTIVE"
	ParticipantInactive ParticipantStatus = "INACTIVE"
	ParticipantCanceled ParticipantStatus = "CANCELED"
)

func (s ParticipantStatus) Valid() bool {
	switch s {
	case ParticipantActive, ParticipantInactive, ParticipantCanceled:
		return true
	}
	return false
}

// Convoy is a relief trip
type Convoy struct {
	ID           string       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string       `gorm:"column:name;not null" json:"name"`
	Goals        string       `gorm:"column:goals;not null" json:"goals"`
	Requirements string       `gorm:"column:requirements;not null" json:"requirements"`
	StartDate    time.Time    `gorm:"column:start_date;not null" json:"startDate"`
	EndDate      *time.Time   `gorm:"column:end_date" json:"endDate"`
	Status       ConvoyStatus `gorm:"column:status;not null" json:"status"`
	CreatedAt    time.Time    `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time    `gorm:"column:updated_at" json:"updatedAt"`

	Participants []ConvoyParticipant `gorm:"-" json:"participants"`
}

func (Convoy) TableName() string {
	return "convoys"
}

// ConvoyParticipant places a user on a convoy within a committee.
// Username and Email are read from the joined user.
type ConvoyParticipant struct {
	ID          int64             `gorm:"column:id;primaryKey" json:"id"`
	ConvoyID    string            `gorm:"column:convoy_id;type:uuid" json:"convoyId"`
	UserID      string            `gorm:"column:user_id;type:uuid" json:"userId"`
	CommitteeID string            `gorm:"column:committee_id;type:uuid" json:"committeeId"`
	Role        string            `gorm:"column:role" json:"role"`
	Status      ParticipantStatus `gorm:"column:status" json:"status"`
	Username    string            `gorm:"column:username;->" json:"username,omitempty"`
	Email       string            `gorm:"column:email;->" json:"email,omitempty"`
	CreatedAt   time.Time         `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time         `gorm:"column:updated_at" json:"updatedAt"`
}

func (ConvoyParticipant) TableName() string {
	return "convoy_participants"
}
