package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a named set of permissions
type Role struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions"`
}

func (Role) TableName() string {
	return "roles"
}

func (r *Role) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// UserRole assigns a role to a user
type UserRole struct {
	UserID string `gorm:"column:user_id;type:uuid;primaryKey"`
	RoleID string `gorm:"column:role_id;type:uuid;primaryKey"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
