package repository

import (
	"context"

	"github.com/ComePicard/Cooloc/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Add inserts the (user, group) pair. Adding an existing pair is not an
// error: the insert is ON CONFLICT DO NOTHING on the composite unique index,
// so concurrent duplicate adds resolve to a single row.
func (r *MembershipRepository) Add(ctx context.Context, tx *gorm.DB, userID, groupID string) error {
	if tx == nil {
		tx = r.db
	}
	membership := &model.Membership{
		UserID:  userID,
		GroupID: groupID,
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "group_id"}},
			DoNothing: true,
		}).
		Create(membership).Error
}

// Remove hard-deletes the pair. Removing an absent pair is a no-op.
func (r *MembershipRepository) Remove(ctx context.Context, userID, groupID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Delete(&model.Membership{}).Error
}

func (r *MembershipRepository) IsMember(ctx context.Context, userID, groupID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Membership{}).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MembersOf returns the users of a group. Soft-deleted users drop out via
// the join's deleted_at filter.
func (r *MembershipRepository) MembersOf(ctx context.Context, groupID string) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Joins("JOIN users_groups ON users_groups.user_id = users.id").
		Where("users_groups.group_id = ?", groupID).
		Order("users_groups.created_at ASC, users_groups.id ASC").
		Find(&users).Error
	return users, err
}

func (r *MembershipRepository) GroupsOf(ctx context.Context, userID string) ([]*model.Group, error) {
	var groups []*model.Group
	err := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Joins("JOIN users_groups ON users_groups.group_id = groups.id").
		Where("users_groups.user_id = ?", userID).
		Order("users_groups.created_at ASC").
		Find(&groups).Error
	return groups, err
}
