package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ComePicard/Cooloc/internal/auth"
	"github.com/ComePicard/Cooloc/internal/config"
	"github.com/ComePicard/Cooloc/internal/model"
	"github.com/ComePicard/Cooloc/internal/repository"

	"gorm.io/gorm"
)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		cfg:      cfg,
		userRepo: repository.NewUserRepository(db),
	}
}

type SignupRequest struct {
	Firstname   string `json:"firstname" binding:"required"`
	Lastname    string `json:"lastname" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Age         *int   `json:"age"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// Signup registers a new account and returns tokens so the client is logged
// in immediately. A taken email surfaces as a conflict.
func (s *AuthService) Signup(ctx context.Context, req *SignupRequest) (*auth.TokenPair, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, repository.ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Firstname:   req.Firstname,
		Lastname:    req.Lastname,
		Email:       req.Email,
		Password:    hash,
		Age:         req.Age,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("[AuthService] user registered: id=%s", user.ID)
	return auth.IssueTokens(&s.cfg.Auth, user.Email)
}

// Login verifies credentials and issues a token pair. Wrong email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return auth.IssueTokens(&s.cfg.Auth, user.Email)
}

// Refresh rotates both tokens for an already-verified identity.
func (s *AuthService) Refresh(ctx context.Context, email string) (*auth.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return auth.IssueTokens(&s.cfg.Auth, user.Email)
}
