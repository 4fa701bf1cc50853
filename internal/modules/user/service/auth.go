package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/internal/modules/policy"
	"anoa.com/moviecatalog/internal/modules/user/dto"
	"anoa.com/moviecatalog/internal/modules/user/repository"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/sanitize"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	tokenType         = "Bearer"
	emailTakenMessage = "The user_email has already been taken."
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, tokenID uuid.UUID) error
	Me(ctx context.Context, actor *policy.Actor) (*entity.User, error)
}

type authService struct {
	repo   repository.UserRepository
	tokens TokenService
}

func NewAuthService(repo repository.UserRepository, tokens TokenService) AuthService {
	return &authService{repo: repo, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	nickname := sanitize.Text(req.Nickname)
	if nickname == "" {
		return nil, apperror.NewValidationError("user_nickname", "The user_nickname field is required.")
	}
	email := strings.TrimSpace(req.Email)

	taken, err := s.repo.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, apperror.NewValidationError("user_email", emailTakenMessage)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Nickname:     nickname,
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleUser,
		Plan:         req.Plan,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.NewValidationError("user_email", emailTakenMessage)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.buildAuthResponse(ctx, user)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	return s.buildAuthResponse(ctx, user)
}

func (s *authService) Logout(ctx context.Context, tokenID uuid.UUID) error {
	if tokenID == uuid.Nil {
		return apperror.Unauthorized("Unauthenticated.")
	}
	if err := s.tokens.Revoke(ctx, tokenID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, actor *policy.Actor) (*entity.User, error) {
	if actor == nil {
		return nil, apperror.Unauthorized("Unauthenticated.")
	}
	user, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("Unauthenticated.")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *authService) buildAuthResponse(ctx context.Context, user *entity.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		User:        user,
		AccessToken: token,
		TokenType:   tokenType,
		ExpiresIn:   int64(time.Until(expiresAt).Round(time.Second).Seconds()),
	}, nil
}

// HashPassword bcrypts a plain password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
