package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Spending is an expense paid by one member of a group on behalf of the
// others. IsReimbursed is true only while every reimbursement row for the
// spending has a paid timestamp; it is maintained by the reimbursement
// repository, never set directly by callers.
type Spending struct {
	ID           string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(128);not null" json:"name"`
	Description  string         `gorm:"type:varchar(512)" json:"description"`
	Amount       float64        `gorm:"not null" json:"amount"`
	Currency     string         `gorm:"type:varchar(8);not null" json:"currency"`
	IsReimbursed bool           `gorm:"not null;default:false" json:"is_reimbursed"`
	OwnerID      string         `gorm:"type:varchar(36);index;not null" json:"owner_id"`
	GroupID      string         `gorm:"type:varchar(36);index;not null" json:"group_id"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Spending) TableName() string {
	return "spendings"
}

func (s *Spending) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
