package model

import (
	"time"
)

// Membership links a user to a group. The pair is unique and carries no
// identity of its own, so rows are hard-deleted.
type Membership struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID    string    `gorm:"type:varchar(36);uniqueIndex:idx_user_group;not null" json:"user_id"`
	GroupID   string    `gorm:"type:varchar(36);uniqueIndex:idx_user_group;not null" json:"group_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Membership) TableName() string {
	return "users_groups"
}
