package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EndpointModel struct {
	ID          string         `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"uniqueIndex;not null" json:"name"`
	Description string         `json:"description"`
	SchemaType  string         `gorm:"type:varchar(20);default:'freeform'" json:"schema_type"`
	IsPublic    bool           `gorm:"default:true" json:"is_public"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (EndpointModel) TableName() string {
	return "endpoints"
}

func (e *EndpointModel) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
