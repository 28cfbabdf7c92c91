package repository

import (
	"context"
	"errors"

	"github.com/ComePicard/Cooloc/internal/model"

	"gorm.io/gorm"
)

var ErrSpendingNotFound = errors.New("spending not found")

type SpendingRepository struct {
	db *gorm.DB
}

func NewSpendingRepository(db *gorm.DB) *SpendingRepository {
	return &SpendingRepository{db: db}
}

func (r *SpendingRepository) Create(ctx context.Context, tx *gorm.DB, spending *model.Spending) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(spending).Error
}

func (r *SpendingRepository) GetByID(ctx context.Context, id string) (*model.Spending, error) {
	var spending model.Spending
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&spending).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpendingNotFound
		}
		return nil, err
	}
	return &spending, nil
}

func (r *SpendingRepository) ListByGroup(ctx context.Context, groupID string) ([]*model.Spending, error) {
	var spendings []*model.Spending
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		Find(&spendings).Error
	return spendings, err
}

func (r *SpendingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.Spending, error) {
	var spendings []*model.Spending
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&spendings).Error
	return spendings, err
}

func (r *SpendingRepository) Update(ctx context.Context, tx *gorm.DB, spending *model.Spending) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Model(&model.Spending{}).
		Where("id = ?", spending.ID).
		Updates(map[string]interface{}{
			"name":        spending.Name,
			"description": spending.Description,
			"amount":      spending.Amount,
			"currency":    spending.Currency,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSpendingNotFound
	}
	return nil
}

// SetReimbursed writes the settlement flag. Callers run this inside the same
// transaction as the obligation change that justified it.
func (r *SpendingRepository) SetReimbursed(ctx context.Context, tx *gorm.DB, spendingID string, reimbursed bool) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Model(&model.Spending{}).
		Where("id = ?", spendingID).
		Update("is_reimbursed", reimbursed).Error
}

func (r *SpendingRepository) SoftDelete(ctx context.Context, tx *gorm.DB, id string) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&model.Spending{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSpendingNotFound
	}
	return nil
}
