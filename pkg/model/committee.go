package model

import "time"

// Committee groups volunteers by the work they do on a convoy
type Committee struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Description *string   `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updatedAt"`

	Members []CommitteeMember `gorm:"-" json:"members"`
}

func (Committee) TableName() string {
	return "committees"
}

type CommitteeMember struct {
	CommitteeID string    `gorm:"column:committee_id;type:uuid;primaryKey" json:"committeeId"`
	UserID      string    `gorm:"column:user_id;type:uuid;primaryKey" json:"userId"`
	Username    string    `gorm:"column:username;->" json:"username,omitempty"`
	Email       string    `gorm:"column:email;->" json:"email,omitempty"`
	IsActive    bool      `gorm:"column:is_active;->" json:"isActive"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (CommitteeMember) TableName() string {
	return "committee_members"
}
