package service

import (
	"context"
	"errors"
	"fmt"

	"mock_backend/internal/model"
	"mock_backend/internal/repository"
	"mock_backend/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService provides authentication related services
type AuthService interface {
	Login(ctx context.Context, creds model.Credentials) (*model.LoginResponse, error)
}

type authService struct {
	userRepo  repository.UserRepository
	tokenUtil *utils.TokenUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, tokenUtil *utils.TokenUtil) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenUtil: tokenUtil,
	}
}

// Login looks up a user by exact phone and password and returns a mock token
// together with the user record minus its password. Read-only.
func (s *authService) Login(ctx context.Context, creds model.Credentials) (*model.LoginResponse, error) {
	user, err := s.userRepo.FindByCredentials(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("error finding user by credentials: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	return &model.LoginResponse{
		Token: s.tokenUtil.GenerateToken(user.ID()),
		User:  model.PublicUser(user),
	}, nil
}
