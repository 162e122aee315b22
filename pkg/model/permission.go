package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Permission is a stored catalog entry. Name is matched against the
// permission package when a profile is built.
type Permission struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"column:description;not null;default:''" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Permission) TableName() string {
	return "permissions"
}

func (p *Permission) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// RolePermission grants a permission to a role
type RolePermission struct {
	RoleID       string `gorm:"column:role_id;type:uuid;primaryKey"`
	PermissionID string `gorm:"column:permission_id;type:uuid;primaryKey"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}
