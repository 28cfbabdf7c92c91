package service

import (
	"context"

	"github.com/ComePicard/Cooloc/internal/model"
	"github.com/ComePicard/Cooloc/internal/repository"

	"gorm.io/gorm"
)

// DocumentService manages document metadata. The bytes themselves live in
// external storage behind StorageKey.
type DocumentService struct {
	documentRepo   *repository.DocumentRepository
	groupRepo      *repository.GroupRepository
	membershipRepo *repository.MembershipRepository
}

func NewDocumentService(db *gorm.DB) *DocumentService {
	return &DocumentService{
		documentRepo:   repository.NewDocumentRepository(db),
		groupRepo:      repository.NewGroupRepository(db),
		membershipRepo: repository.NewMembershipRepository(db),
	}
}

type CreateDocumentRequest struct {
	Name        string `json:"name" binding:"required"`
	ContentType string `json:"content_type"`
	StorageKey  string `json:"storage_key" binding:"required"`
	GroupID     string `json:"group_id" binding:"required"`
}

func (s *DocumentService) Create(ctx context.Context, req *CreateDocumentRequest, ownerID string) (*model.Document, error) {
	if _, err := s.groupRepo.GetByID(ctx, req.GroupID); err != nil {
		return nil, err
	}
	isMember, err := s.membershipRepo.IsMember(ctx, ownerID, req.GroupID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrOwnerNotMember
	}

	document := &model.Document{
		Name:        req.Name,
		ContentType: req.ContentType,
		StorageKey:  req.StorageKey,
		OwnerID:     ownerID,
		GroupID:     req.GroupID,
	}
	if err := s.documentRepo.Create(ctx, document); err != nil {
		return nil, err
	}
	return document, nil
}

func (s *DocumentService) Get(ctx context.Context, documentID string) (*model.Document, error) {
	return s.documentRepo.GetByID(ctx, documentID)
}

func (s *DocumentService) ListByGroup(ctx context.Context, groupID string) ([]*model.Document, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.documentRepo.ListByGroup(ctx, groupID)
}

func (s *DocumentService) ListByOwner(ctx context.Context, ownerID string) ([]*model.Document, error) {
	return s.documentRepo.ListByOwner(ctx, ownerID)
}

func (s *DocumentService) Remove(ctx context.Context, documentID string) error {
	return s.documentRepo.SoftDelete(ctx, documentID)
}
