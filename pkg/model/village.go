package model

import (
	"time"

	"github.com/jackc/pgtype"
)

// Village is a destination served by convoys
type Village struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Location  string    `gorm:"column:location;not null" json:"location"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`

	Data []VillageData `gorm:"-" json:"villageData"`
}

func (Village) TableName() string {
	return "villages"
}

// VillageData is a free-form survey document recorded for a village
type VillageData struct {
	ID        string       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	VillageID string       `gorm:"column:village_id;type:uuid" json:"villageId"`
	UserID    string       `gorm:"column:user_id;type:uuid" json:"userId"`
	Data      pgtype.JSONB `gorm:"column:data;type:jsonb" json:"data"`
	CreatedAt time.Time    `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"column:updated_at" json:"updatedAt"`
}

func (VillageData) TableName() string {
	return "village_data"
}
