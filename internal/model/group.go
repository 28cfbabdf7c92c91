package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Group is a shared household or trip that collects members and spendings.
type Group struct {
	ID           string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(128);not null" json:"name"`
	Description  string         `gorm:"type:varchar(512)" json:"description"`
	City         string         `gorm:"type:varchar(128)" json:"city"`
	PostalCode   string         `gorm:"type:varchar(16)" json:"postal_code"`
	Country      string         `gorm:"type:varchar(64)" json:"country"`
	ContactEmail string         `gorm:"type:varchar(128)" json:"contact_email"`
	ContactPhone string         `gorm:"type:varchar(32)" json:"contact_phone"`
	StartingAt   time.Time      `json:"starting_at"`
	EndingAt     *time.Time     `json:"ending_at,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Group) TableName() string {
	return "groups"
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
