package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is file metadata attached to a group (receipts, leases). The
// binary content lives in external storage; only the reference is kept here.
type Document struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(256);not null" json:"name"`
	ContentType string         `gorm:"type:varchar(128)" json:"content_type"`
	StorageKey  string         `gorm:"type:varchar(512);not null" json:"storage_key"`
	OwnerID     string         `gorm:"type:varchar(36);index;not null" json:"owner_id"`
	GroupID     string         `gorm:"type:varchar(36);index;not null" json:"group_id"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
