package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"brewalgo_client/internal/common"
	"brewalgo_client/internal/common/security"
	"brewalgo_client/internal/devserver/repository"
	"brewalgo_client/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid username or password: %w", common.ErrUnauthorized)
	ErrAccountTaken       = fmt.Errorf("username or email already exists: %w", common.ErrConflict)
)

type AuthService struct {
	userRepo  repository.UserRepository
	tokenAuth *jwtauth.JWTAuth
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokenAuth *jwtauth.JWTAuth, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenAuth: tokenAuth,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("username, email and password are required: %w", common.ErrBadRequest)
	}
	if !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("email address is not valid: %w", common.ErrBadRequest)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	record := &repository.UserRecord{
		User: model.User{
			Username:    req.Username,
			Email:       req.Email,
			Rating:      1200,
			Role:        model.RoleUser,
			CreatedAt:   model.Timestamp{Time: now},
			LastLoginAt: model.Timestamp{Time: now},
		},
		HashedPassword: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, record); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, ErrAccountTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return s.issue(&record.User)
}

// Login accepts either the username or the email in req.Username.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	login := strings.TrimSpace(req.Username)
	if login == "" || req.Password == "" {
		return nil, fmt.Errorf("username and password are required: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByEmail(ctx, login)
	if errors.Is(err, common.ErrNotFound) {
		user, err = s.userRepo.FindByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.userRepo.TouchLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLoginAt = model.Timestamp{Time: now}
	return s.issue(&user.User)
}

func (s *AuthService) issue(user *model.User) (*model.AuthResponse, error) {
	token, err := security.GenerateToken(s.tokenAuth, user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.AuthResponse{Token: token, User: user.Clone()}, nil
}
