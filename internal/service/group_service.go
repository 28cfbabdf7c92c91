package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ComePicard/Cooloc/internal/config"
	"github.com/ComePicard/Cooloc/internal/invite"
	"github.com/ComePicard/Cooloc/internal/model"
	"github.com/ComePicard/Cooloc/internal/repository"

	"gorm.io/gorm"
)

type GroupService struct {
	db             *gorm.DB
	cfg            *config.Config
	registry       *invite.Registry
	groupRepo      *repository.GroupRepository
	membershipRepo *repository.MembershipRepository
	outboxRepo     *repository.OutboxRepository
}

func NewGroupService(db *gorm.DB, registry *invite.Registry, cfg *config.Config) *GroupService {
	return &GroupService{
		db:             db,
		cfg:            cfg,
		registry:       registry,
		groupRepo:      repository.NewGroupRepository(db),
		membershipRepo: repository.NewMembershipRepository(db),
		outboxRepo:     repository.NewOutboxRepository(db),
	}
}

type CreateGroupRequest struct {
	Name         string     `json:"name" binding:"required"`
	Description  string     `json:"description"`
	City         string     `json:"city"`
	PostalCode   string     `json:"postal_code"`
	Country      string     `json:"country"`
	ContactEmail string     `json:"contact_email"`
	ContactPhone string     `json:"contact_phone"`
	StartingAt   time.Time  `json:"starting_at"`
	EndingAt     *time.Time `json:"ending_at"`
}

// Create inserts the group and joins the creator to it in one transaction.
func (s *GroupService) Create(ctx context.Context, req *CreateGroupRequest, creatorID string) (*model.Group, error) {
	group := &model.Group{
		Name:         req.Name,
		Description:  req.Description,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		StartingAt:   req.StartingAt,
		EndingAt:     req.EndingAt,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.groupRepo.Create(ctx, tx, group); err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}
		if err := s.membershipRepo.Add(ctx, tx, creatorID, group.ID); err != nil {
			return fmt.Errorf("failed to add creator to group: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[GroupService] group created: id=%s name=%s", group.ID, group.Name)
	return group, nil
}

func (s *GroupService) List(ctx context.Context) ([]*model.Group, error) {
	return s.groupRepo.List(ctx)
}

func (s *GroupService) Get(ctx context.Context, groupID string) (*model.Group, error) {
	return s.groupRepo.GetByID(ctx, groupID)
}

func (s *GroupService) Update(ctx context.Context, groupID string, req *CreateGroupRequest) (*model.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	group.Name = req.Name
	group.Description = req.Description
	group.City = req.City
	group.PostalCode = req.PostalCode
	group.Country = req.Country
	group.ContactEmail = req.ContactEmail
	group.ContactPhone = req.ContactPhone
	group.StartingAt = req.StartingAt
	group.EndingAt = req.EndingAt

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) Remove(ctx context.Context, groupID string) error {
	return s.groupRepo.SoftDelete(ctx, groupID)
}

func (s *GroupService) Members(ctx context.Context, groupID string) ([]*model.User, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.membershipRepo.MembersOf(ctx, groupID)
}

func (s *GroupService) GroupsOfUser(ctx context.Context, userID string) ([]*model.Group, error) {
	return s.membershipRepo.GroupsOf(ctx, userID)
}

func (s *GroupService) AddMember(ctx context.Context, userID, groupID string) error {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return err
	}
	return s.membershipRepo.Add(ctx, nil, userID, groupID)
}

func (s *GroupService) RemoveMember(ctx context.Context, userID, groupID string) error {
	return s.membershipRepo.Remove(ctx, userID, groupID)
}

// Invitation is what invitation issuance returns to the caller.
type Invitation struct {
	Code      string    `json:"code"`
	GroupID   string    `json:"group_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateInvitation issues a code for an existing group. A nil ttlMinutes
// means the caller did not pick one and gets the configured default; an
// explicit zero is honored as a ttl of zero, so the code is born expired.
func (s *GroupService) CreateInvitation(ctx context.Context, groupID string, ttlMinutes *int) (*Invitation, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	minutes := s.cfg.Business.InvitationTTLMinutes
	if ttlMinutes != nil {
		minutes = *ttlMinutes
	}
	ttl := time.Duration(minutes) * time.Minute

	code, expiresAt := s.registry.Issue(groupID, ttl)
	log.Printf("[GroupService] invitation issued: group=%s", groupID)
	return &Invitation{
		Code:      code,
		GroupID:   groupID,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateInvitation resolves a code without joining. A code whose group has
// been deleted since issuance reports not found.
func (s *GroupService) ValidateInvitation(ctx context.Context, code string) (*model.Group, error) {
	groupID, err := s.registry.Resolve(code)
	if err != nil {
		return nil, err
	}
	return s.groupRepo.GetByID(ctx, groupID)
}

// JoinByCode adds the caller to the group a live code points to. The add is
// idempotent, and the code stays live afterwards so other invitees can use
// it until it expires.
func (s *GroupService) JoinByCode(ctx context.Context, code, userID string) (*model.Group, error) {
	groupID, err := s.registry.Resolve(code)
	if err != nil {
		return nil, err
	}

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.membershipRepo.Add(ctx, tx, userID, groupID); err != nil {
			return fmt.Errorf("failed to join group: %w", err)
		}

		msg := newOutboxMessage(s.cfg.Kafka.Topic.GroupEvents, groupID, model.EventGroupMemberJoined, map[string]interface{}{
			"group_id": groupID,
			"user_id":  userID,
		})
		return s.outboxRepo.Create(ctx, tx, msg)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[GroupService] user joined by invitation: group=%s user=%s", groupID, userID)
	return group, nil
}

// RevokeInvitation invalidates a code before its expiry.
func (s *GroupService) RevokeInvitation(code string) {
	s.registry.Revoke(code)
}
