package service

import (
	"context"
	"fmt"
	"log"

	"github.com/ComePicard/Cooloc/internal/config"
	"github.com/ComePicard/Cooloc/internal/model"
	"github.com/ComePicard/Cooloc/internal/repository"

	"gorm.io/gorm"
)

type SpendingService struct {
	db                *gorm.DB
	cfg               *config.Config
	spendingRepo      *repository.SpendingRepository
	groupRepo         *repository.GroupRepository
	membershipRepo    *repository.MembershipRepository
	reimbursementRepo *repository.ReimbursementRepository
	outboxRepo        *repository.OutboxRepository
}

func NewSpendingService(db *gorm.DB, cfg *config.Config) *SpendingService {
	return &SpendingService{
		db:                db,
		cfg:               cfg,
		spendingRepo:      repository.NewSpendingRepository(db),
		groupRepo:         repository.NewGroupRepository(db),
		membershipRepo:    repository.NewMembershipRepository(db),
		reimbursementRepo: repository.NewReimbursementRepository(db),
		outboxRepo:        repository.NewOutboxRepository(db),
	}
}

type CreateSpendingRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency" binding:"required"`
	GroupID     string  `json:"group_id" binding:"required"`
}

// Create persists the spending and fans out one reimbursement per non-owner
// group member in a single transaction. Membership is snapshotted at split
// time: later joins or leaves do not rewrite the obligation set.
func (s *SpendingService) Create(ctx context.Context, req *CreateSpendingRequest, ownerID string) (*model.Spending, error) {
	if req.Amount < 0 {
		return nil, ErrInvalidAmount
	}
	if req.Name == "" || req.Currency == "" || req.GroupID == "" {
		return nil, ErrMissingField
	}

	if _, err := s.groupRepo.GetByID(ctx, req.GroupID); err != nil {
		return nil, err
	}

	isMember, err := s.membershipRepo.IsMember(ctx, ownerID, req.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, ErrOwnerNotMember
	}

	members, err := s.membershipRepo.MembersOf(ctx, req.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	spending := &model.Spending{
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		OwnerID:     ownerID,
		GroupID:     req.GroupID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.spendingRepo.Create(ctx, tx, spending); err != nil {
			return fmt.Errorf("failed to create spending: %w", err)
		}

		if err := s.splitAcrossMembers(ctx, tx, spending, members); err != nil {
			return err
		}

		msg := newOutboxMessage(s.cfg.Kafka.Topic.SpendingEvents, spending.ID, model.EventSpendingCreated, map[string]interface{}{
			"spending_id": spending.ID,
			"group_id":    spending.GroupID,
			"owner_id":    spending.OwnerID,
			"amount":      spending.Amount,
			"currency":    spending.Currency,
		})
		if err := s.outboxRepo.Create(ctx, tx, msg); err != nil {
			return fmt.Errorf("failed to write outbox message: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[SpendingService] spending created: id=%s group=%s amount=%.2f", spending.ID, spending.GroupID, spending.Amount)
	return spending, nil
}

// splitAcrossMembers creates one reimbursement per member except the owner.
// Shares come from SplitShares in member order, so the first debtor absorbs
// any rounding remainder. With no member but the owner there is nothing to
// create and the spending stays unreimbursed: nobody owing is not the same
// as settled.
func (s *SpendingService) splitAcrossMembers(ctx context.Context, tx *gorm.DB, spending *model.Spending, members []*model.User) error {
	var debtors []*model.User
	for _, member := range members {
		if member.ID != spending.OwnerID {
			debtors = append(debtors, member)
		}
	}
	if len(debtors) == 0 {
		return nil
	}

	shares := SplitShares(spending.Amount, len(debtors))
	for i, debtor := range debtors {
		reimbursement := &model.Reimbursement{
			SpendingID: spending.ID,
			UserID:     debtor.ID,
			Amount:     shares[i],
		}
		if err := s.reimbursementRepo.Create(ctx, tx, reimbursement); err != nil {
			return fmt.Errorf("failed to create reimbursement for user %s: %w", debtor.ID, err)
		}
	}
	return nil
}

type UpdateSpendingRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency" binding:"required"`
	GroupID     string  `json:"group_id" binding:"required"`
}

// Update edits a spending. Once any reimbursement is paid the amount and
// group are frozen; before that, changing either drops the pending
// obligations and recomputes the split against current membership.
func (s *SpendingService) Update(ctx context.Context, spendingID string, req *UpdateSpendingRequest) (*model.Spending, error) {
	if req.Amount < 0 {
		return nil, ErrInvalidAmount
	}

	spending, err := s.spendingRepo.GetByID(ctx, spendingID)
	if err != nil {
		return nil, err
	}

	needsResplit := req.Amount != spending.Amount || req.GroupID != spending.GroupID
	if needsResplit {
		paidCount, err := s.reimbursementRepo.CountPaidBySpending(ctx, nil, spendingID)
		if err != nil {
			return nil, err
		}
		if paidCount > 0 {
			return nil, ErrSpendingLocked
		}
	}

	if req.GroupID != spending.GroupID {
		if _, err := s.groupRepo.GetByID(ctx, req.GroupID); err != nil {
			return nil, err
		}
		isMember, err := s.membershipRepo.IsMember(ctx, spending.OwnerID, req.GroupID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, ErrOwnerNotMember
		}
	}

	members, err := s.membershipRepo.MembersOf(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	spending.Name = req.Name
	spending.Description = req.Description
	spending.Amount = req.Amount
	spending.Currency = req.Currency

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.spendingRepo.Update(ctx, tx, spending); err != nil {
			return err
		}
		if req.GroupID != spending.GroupID {
			if err := tx.WithContext(ctx).Model(&model.Spending{}).
				Where("id = ?", spendingID).
				Update("group_id", req.GroupID).Error; err != nil {
				return err
			}
			spending.GroupID = req.GroupID
		}

		if !needsResplit {
			return nil
		}

		if err := s.reimbursementRepo.DeleteBySpending(ctx, tx, spendingID); err != nil {
			return err
		}
		if err := s.spendingRepo.SetReimbursed(ctx, tx, spendingID, false); err != nil {
			return err
		}
		spending.IsReimbursed = false
		return s.splitAcrossMembers(ctx, tx, spending, members)
	})
	if err != nil {
		return nil, err
	}

	return spending, nil
}

func (s *SpendingService) Get(ctx context.Context, spendingID string) (*model.Spending, error) {
	return s.spendingRepo.GetByID(ctx, spendingID)
}

func (s *SpendingService) ListByGroup(ctx context.Context, groupID string) ([]*model.Spending, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.spendingRepo.ListByGroup(ctx, groupID)
}

func (s *SpendingService) ListByOwner(ctx context.Context, ownerID string) ([]*model.Spending, error) {
	return s.spendingRepo.ListByOwner(ctx, ownerID)
}

// Remove soft-deletes the spending and hard-deletes its obligations; the
// reimbursement rows carry no history value once the spending is gone.
func (s *SpendingService) Remove(ctx context.Context, spendingID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.reimbursementRepo.DeleteBySpending(ctx, tx, spendingID); err != nil {
			return err
		}
		return s.spendingRepo.SoftDelete(ctx, tx, spendingID)
	})
}
