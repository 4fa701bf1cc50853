package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/internal/modules/policy"
	"anoa.com/moviecatalog/internal/modules/user/repository"
	"anoa.com/moviecatalog/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInvalidToken marks a credential that is malformed, expired or revoked.
var ErrInvalidToken = fmt.Errorf("invalid token: %w", apperror.ErrUnauthorized)

// TokenService issues bearer tokens backed by an access_tokens row, so a
// token stops working as soon as its row is deleted.
type TokenService interface {
	Issue(ctx context.Context, user *entity.User) (string, time.Time, error)
	// Resolve validates the token and returns the caller and the token id.
	Resolve(ctx context.Context, token string) (*policy.Actor, uuid.UUID, error)
	Revoke(ctx context.Context, tokenID uuid.UUID) error
}

type tokenService struct {
	repo   repository.AccessTokenRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(repo repository.AccessTokenRepository, secret string, ttl time.Duration) TokenService {
	return &tokenService{repo: repo, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *tokenService) Issue(ctx context.Context, user *entity.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	row := &entity.AccessToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to store access token: %w", err)
	}

	claims := jwt.RegisteredClaims{
		ID:        row.ID.String(),
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	// Best effort prune of the user's expired tokens.
	_ = s.repo.DeleteExpired(ctx, user.ID, now)

	return signed, expiresAt, nil
}

func (s *tokenService) Resolve(ctx context.Context, tokenString string) (*policy.Actor, uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%w: bad jti", ErrInvalidToken)
	}

	row, err := s.repo.FindActive(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, uuid.Nil, fmt.Errorf("%w: revoked", ErrInvalidToken)
		}
		return nil, uuid.Nil, fmt.Errorf("failed to load access token: %w", err)
	}
	if row.User == nil {
		return nil, uuid.Nil, fmt.Errorf("%w: user missing", ErrInvalidToken)
	}

	return &policy.Actor{ID: row.User.ID, Role: row.User.Role}, row.ID, nil
}

func (s *tokenService) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	return s.repo.Delete(ctx, tokenID)
}
