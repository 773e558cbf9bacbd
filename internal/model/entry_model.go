package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DataEntryModel struct {
	ID          string         `gorm:"type:uuid;primary_key" json:"id"`
	EndpointID  string         `gorm:"type:uuid;not null;index" json:"endpoint_id"`
	CreatedByID string         `gorm:"type:uuid;not null;index" json:"created_by_id"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	Data        []byte         `gorm:"type:jsonb;not null" json:"data"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (DataEntryModel) TableName() string {
	return "data_entries"
}

func (e *DataEntryModel) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
