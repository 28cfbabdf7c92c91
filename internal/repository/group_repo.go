package repository

import (
	"context"
	"errors"

	"github.com/ComePicard/Cooloc/internal/model"

	"gorm.io/gorm"
)

var ErrGroupNotFound = errors.New("group not found")

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Create(ctx context.Context, tx *gorm.DB, group *model.Group) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(group).Error
}

func (r *GroupRepository) GetByID(ctx context.Context, id string) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) List(ctx context.Context) ([]*model.Group, error) {
	var groups []*model.Group
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) Update(ctx context.Context, group *model.Group) error {
	result := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("id = ?", group.ID).
		Updates(map[string]interface{}{
			"name":          group.Name,
			"description":   group.Description,
			"city":          group.City,
			"postal_code":   group.PostalCode,
			"country":       group.Country,
			"contact_email": group.ContactEmail,
			"contact_phone": group.ContactPhone,
			"starting_at":   group.StartingAt,
			"ending_at":     group.EndingAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}
	return nil
}

func (r *GroupRepository) SoftDelete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Group{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}
	return nil
}
