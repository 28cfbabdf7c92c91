package model

import (
	"time"
)

// Reimbursement is one debtor's share of a spending. The (spending, user)
// pair is unique and the spending owner never gets a row. PaidAt stays nil
// until the debtor settles. Rows are hard-deleted.
type Reimbursement struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"-"`
	SpendingID string     `gorm:"type:varchar(36);uniqueIndex:idx_spending_user;not null" json:"spending_id"`
	UserID     string     `gorm:"type:varchar(36);uniqueIndex:idx_spending_user;index;not null" json:"user_id"`
	Amount     float64    `gorm:"not null" json:"amount"`
	PaidAt     *time.Time `json:"paid_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Reimbursement) TableName() string {
	return "spending_reimbursements"
}

// Summary aggregates a user's position across all reimbursements.
// OwedBy and OwedTo are gross sums: paid rows are included.
type Summary struct {
	OwedBy  float64 `json:"owed_by"`
	OwedTo  float64 `json:"owed_to"`
	Balance float64 `json:"balance"`
}
