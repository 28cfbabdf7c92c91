package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ComePicard/Cooloc/internal/config"
	"github.com/ComePicard/Cooloc/internal/infrastructure/lock"
	"github.com/ComePicard/Cooloc/internal/model"
	"github.com/ComePicard/Cooloc/internal/repository"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type ReimbursementService struct {
	db                *gorm.DB
	redisClient       *redis.Client
	cfg               *config.Config
	spendingRepo      *repository.SpendingRepository
	reimbursementRepo *repository.ReimbursementRepository
	outboxRepo        *repository.OutboxRepository
}

func NewReimbursementService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *ReimbursementService {
	return &ReimbursementService{
		db:                db,
		redisClient:       redisClient,
		cfg:               cfg,
		spendingRepo:      repository.NewSpendingRepository(db),
		reimbursementRepo: repository.NewReimbursementRepository(db),
		outboxRepo:        repository.NewOutboxRepository(db),
	}
}

func (s *ReimbursementService) ListBySpending(ctx context.Context, spendingID string) ([]*model.Reimbursement, error) {
	if _, err := s.spendingRepo.GetByID(ctx, spendingID); err != nil {
		return nil, err
	}
	return s.reimbursementRepo.ListBySpending(ctx, spendingID)
}

func (s *ReimbursementService) ListByUser(ctx context.Context, userID string) ([]*model.Reimbursement, error) {
	return s.reimbursementRepo.ListByUser(ctx, userID)
}

func (s *ReimbursementService) ListUnpaidByUser(ctx context.Context, userID string) ([]*model.Reimbursement, error) {
	return s.reimbursementRepo.ListUnpaidByUser(ctx, userID)
}

// MarkPaid stamps one debtor's obligation and recomputes the spending's
// settlement. The paid-at write and the unpaid count run in one transaction,
// and a per-spending lock keeps two settlements of the same spending from
// interleaving around it. Marking an already-paid obligation again moves the
// stamp to the new time.
func (s *ReimbursementService) MarkPaid(ctx context.Context, spendingID, userID string, paidAt time.Time) (*model.Reimbursement, error) {
	spending, err := s.spendingRepo.GetByID(ctx, spendingID)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		settleLock := lock.NewSettleLock(s.redisClient, spendingID)
		if err := settleLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
			return nil, fmt.Errorf("failed to acquire settle lock: %w", err)
		}
		defer settleLock.Unlock(ctx)
	}

	var settled bool
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.reimbursementRepo.SetPaidAt(ctx, tx, spendingID, userID, paidAt); err != nil {
			return err
		}

		unpaid, err := s.reimbursementRepo.CountUnpaid(ctx, tx, spendingID)
		if err != nil {
			return err
		}
		if unpaid > 0 {
			return nil
		}

		settled = true
		if err := s.spendingRepo.SetReimbursed(ctx, tx, spendingID, true); err != nil {
			return err
		}

		msg := newOutboxMessage(s.cfg.Kafka.Topic.SpendingEvents, spendingID, model.EventSpendingSettled, map[string]interface{}{
			"spending_id": spendingID,
			"group_id":    spending.GroupID,
			"owner_id":    spending.OwnerID,
			"amount":      spending.Amount,
			"currency":    spending.Currency,
		})
		return s.outboxRepo.Create(ctx, tx, msg)
	})
	if err != nil {
		return nil, err
	}

	if settled {
		log.Printf("[ReimbursementService] spending fully reimbursed: id=%s", spendingID)
	}

	return s.reimbursementRepo.GetBySpendingAndUser(ctx, spendingID, userID)
}

// Remove deletes one obligation and unconditionally resets the spending to
// unsettled: dropping a participant changes the settlement shape even when
// the removed obligation was already paid.
func (s *ReimbursementService) Remove(ctx context.Context, spendingID, userID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.reimbursementRepo.Delete(ctx, tx, spendingID, userID); err != nil {
			return err
		}
		return s.spendingRepo.SetReimbursed(ctx, tx, spendingID, false)
	})
}

// TotalOwedBy reports gross exposure: paid obligations count too.
func (s *ReimbursementService) TotalOwedBy(ctx context.Context, userID string) (float64, error) {
	return s.reimbursementRepo.TotalOwedBy(ctx, userID)
}

func (s *ReimbursementService) TotalOwedTo(ctx context.Context, userID string) (float64, error) {
	return s.reimbursementRepo.TotalOwedTo(ctx, userID)
}

func (s *ReimbursementService) Summary(ctx context.Context, userID string) (*model.Summary, error) {
	owedBy, err := s.reimbursementRepo.TotalOwedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	owedTo, err := s.reimbursementRepo.TotalOwedTo(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.Summary{
		OwedBy:  owedBy,
		OwedTo:  owedTo,
		Balance: owedTo - owedBy,
	}, nil
}
