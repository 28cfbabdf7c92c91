package service

import (
	"context"

	"github.com/ComePicard/Cooloc/internal/model"
	"github.com/ComePicard/Cooloc/internal/repository"

	"gorm.io/gorm"
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		userRepo: repository.NewUserRepository(db),
	}
}

func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, userID string) (*model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

type UpdateUserRequest struct {
	Firstname   string `json:"firstname" binding:"required"`
	Lastname    string `json:"lastname" binding:"required"`
	Age         *int   `json:"age"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

func (s *UserService) Update(ctx context.Context, userID string, req *UpdateUserRequest) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Firstname = req.Firstname
	user.Lastname = req.Lastname
	user.Age = req.Age
	user.Address = req.Address
	user.PhoneNumber = req.PhoneNumber

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Remove(ctx context.Context, userID string) error {
	return s.userRepo.SoftDelete(ctx, userID)
}
