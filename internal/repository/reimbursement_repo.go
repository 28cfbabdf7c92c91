package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ComePicard/Cooloc/internal/model"

	"gorm.io/gorm"
)

var ErrReimbursementNotFound = errors.New("reimbursement not found")

type ReimbursementRepository struct {
	db *gorm.DB
}

func NewReimbursementRepository(db *gorm.DB) *ReimbursementRepository {
	return &ReimbursementRepository{db: db}
}

func (r *ReimbursementRepository) Create(ctx context.Context, tx *gorm.DB, reimbursement *model.Reimbursement) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(reimbursement).Error
}

func (r *ReimbursementRepository) GetBySpendingAndUser(ctx context.Context, spendingID, userID string) (*model.Reimbursement, error) {
	var reimbursement model.Reimbursement
	err := r.db.WithContext(ctx).
		Where("spending_id = ? AND user_id = ?", spendingID, userID).
		First(&reimbursement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReimbursementNotFound
		}
		return nil, err
	}
	return &reimbursement, nil
}

func (r *ReimbursementRepository) ListBySpending(ctx context.Context, spendingID string) ([]*model.Reimbursement, error) {
	var reimbursements []*model.Reimbursement
	err := r.db.WithContext(ctx).
		Where("spending_id = ?", spendingID).
		Order("created_at ASC").
		Find(&reimbursements).Error
	return reimbursements, err
}

func (r *ReimbursementRepository) ListByUser(ctx context.Context, userID string) ([]*model.Reimbursement, error) {
	var reimbursements []*model.Reimbursement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&reimbursements).Error
	return reimbursements, err
}

func (r *ReimbursementRepository) ListUnpaidByUser(ctx context.Context, userID string) ([]*model.Reimbursement, error) {
	var reimbursements []*model.Reimbursement
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND paid_at IS NULL", userID).
		Order("created_at ASC").
		Find(&reimbursements).Error
	return reimbursements, err
}

// SetPaidAt stamps the payment time. A second call overwrites the stamp with
// the new time (latest call wins).
func (r *ReimbursementRepository) SetPaidAt(ctx context.Context, tx *gorm.DB, spendingID, userID string, paidAt time.Time) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Model(&model.Reimbursement{}).
		Where("spending_id = ? AND user_id = ?", spendingID, userID).
		Update("paid_at", paidAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReimbursementNotFound
	}
	return nil
}

func (r *ReimbursementRepository) Delete(ctx context.Context, tx *gorm.DB, spendingID, userID string) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Where("spending_id = ? AND user_id = ?", spendingID, userID).
		Delete(&model.Reimbursement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReimbursementNotFound
	}
	return nil
}

// DeleteBySpending removes every obligation of a spending, used when a
// pending split is recomputed.
func (r *ReimbursementRepository) DeleteBySpending(ctx context.Context, tx *gorm.DB, spendingID string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Where("spending_id = ?", spendingID).
		Delete(&model.Reimbursement{}).Error
}

// CountUnpaid is the settlement predicate: a spending is reimbursed iff this
// reaches zero. Run inside the same transaction as the paid-at write so two
// concurrent settlements cannot both see a stale obligation list.
func (r *ReimbursementRepository) CountUnpaid(ctx context.Context, tx *gorm.DB, spendingID string) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.WithContext(ctx).
		Model(&model.Reimbursement{}).
		Where("spending_id = ? AND paid_at IS NULL", spendingID).
		Count(&count).Error
	return count, err
}

func (r *ReimbursementRepository) CountBySpending(ctx context.Context, tx *gorm.DB, spendingID string) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.WithContext(ctx).
		Model(&model.Reimbursement{}).
		Where("spending_id = ?", spendingID).
		Count(&count).Error
	return count, err
}

func (r *ReimbursementRepository) CountPaidBySpending(ctx context.Context, tx *gorm.DB, spendingID string) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.WithContext(ctx).
		Model(&model.Reimbursement{}).
		Where("spending_id = ? AND paid_at IS NOT NULL", spendingID).
		Count(&count).Error
	return count, err
}

// TotalOwedBy sums the amounts a user owes across all spendings, paid rows
// included (gross exposure).
func (r *ReimbursementRepository) TotalOwedBy(ctx context.Context, userID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&model.Reimbursement{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// TotalOwedTo sums the amounts owed to a user as spending owner.
func (r *ReimbursementRepository) TotalOwedTo(ctx context.Context, userID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&model.Reimbursement{}).
		Joins("JOIN spendings ON spendings.id = spending_reimbursements.spending_id").
		Where("spendings.owner_id = ? AND spendings.deleted_at IS NULL", userID).
		Select("COALESCE(SUM(spending_reimbursements.amount), 0)").
		Scan(&total).Error
	return total, err
}
