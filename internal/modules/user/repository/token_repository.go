package repository

import (
	"context"
	"time"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccessTokenRepository interface {
	Create(ctx context.Context, token *entity.AccessToken) error
	// FindActive returns the unexpired token with its user.
	FindActive(ctx context.Context, id uuid.UUID, now time.Time) (*entity.AccessToken, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired prunes the user's expired tokens.
	DeleteExpired(ctx context.Context, userID uint, now time.Time) error
}

type accessTokenRepository struct {
	db *gorm.DB
}

func NewAccessTokenRepository(db *gorm.DB) AccessTokenRepository {
	return &accessTokenRepository{db: db}
}

func (r *accessTokenRepository) Create(ctx context.Context, token *entity.AccessToken) error {
	return database.Conn(ctx, r.db).Omit("User").Create(token).Error
}

func (r *accessTokenRepository) FindActive(ctx context.Context, id uuid.UUID, now time.Time) (*entity.AccessToken, error) {
	var token entity.AccessToken
	err := database.Conn(ctx, r.db).
		Preload("User").
		Where("id = ? AND expires_at > ?", id, now).
		Take(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *accessTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.Conn(ctx, r.db).Where("id = ?", id).Delete(&entity.AccessToken{}).Error
}

func (r *accessTokenRepository) DeleteExpired(ctx context.Context, userID uint, now time.Time) error {
	return database.Conn(ctx, r.db).
		Where("user_id = ? AND expires_at <= ?", userID, now).
		Delete(&entity.AccessToken{}).Error
}
