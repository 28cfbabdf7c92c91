package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that owns spendings and belongs to groups.
// The password column stores the bcrypt hash, never the clear text.
type User struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Firstname   string         `gorm:"type:varchar(64);not null" json:"firstname"`
	Lastname    string         `gorm:"type:varchar(64);not null" json:"lastname"`
	Email       string         `gorm:"type:varchar(128);uniqueIndex;not null" json:"email"`
	Password    string         `gorm:"type:varchar(128);not null" json:"-"`
	Age         *int           `json:"age,omitempty"`
	Address     string         `gorm:"type:varchar(256)" json:"address"`
	PhoneNumber string         `gorm:"type:varchar(32)" json:"phone_number"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
