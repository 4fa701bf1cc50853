package repository

import (
	"context"
	"errors"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/pkg/database"
	"anoa.com/moviecatalog/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchHistoryRepository interface {
	// ListByUser returns the user's entries newest first, each with its movie
	// and the movie's genres.
	ListByUser(ctx context.Context, userID uint, page pagination.Params) ([]entity.WatchHistory, int64, error)
	FindByID(ctx context.Context, id uint) (*entity.WatchHistory, error)
	// LockMovie and LockUser report whether the row exists and hold a share
	// lock on it until the surrounding transaction ends.
	LockMovie(ctx context.Context, movieID uint) (bool, error)
	LockUser(ctx context.Context, userID uint) (bool, error)
	Create(ctx context.Context, entry *entity.WatchHistory) error
	UpdateMovie(ctx context.Context, id, movieID uint) error
	Delete(ctx context.Context, id uint) error
}

type watchHistoryRepository struct {
	db *gorm.DB
}

func NewWatchHistoryRepository(db *gorm.DB) WatchHistoryRepository {
	return &watchHistoryRepository{db: db}
}

func (r *watchHistoryRepository) ListByUser(ctx context.Context, userID uint, page pagination.Params) ([]entity.WatchHistory, int64, error) {
	query := database.Conn(ctx, r.db).
		Model(&entity.WatchHistory{}).
		Where("user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []entity.WatchHistory
	err := query.
		Preload("Movie").
		Preload("Movie.Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genre_name") }).
		Order("watch_date DESC").
		Order("watch_history_id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *watchHistoryRepository) FindByID(ctx context.Context, id uint) (*entity.WatchHistory, error) {
	var entry entity.WatchHistory
	err := database.Conn(ctx, r.db).
		Preload("User").
		Preload("Movie").
		Where("watch_history_id = ?", id).
		Take(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *watchHistoryRepository) LockMovie(ctx context.Context, movieID uint) (bool, error) {
	var movie entity.Movie
	return r.lock(ctx, &movie, "movie_id", movieID)
}

func (r *watchHistoryRepository) LockUser(ctx context.Context, userID uint) (bool, error) {
	var user entity.User
	return r.lock(ctx, &user, "user_id", userID)
}

func (r *watchHistoryRepository) lock(ctx context.Context, dest any, column string, id uint) (bool, error) {
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Select(column).
		Where(column+" = ?", id).
		Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *watchHistoryRepository) Create(ctx context.Context, entry *entity.WatchHistory) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(entry).Error
}

func (r *watchHistoryRepository) UpdateMovie(ctx context.Context, id, movieID uint) error {
	return database.Conn(ctx, r.db).
		Model(&entity.WatchHistory{}).
		Where("watch_history_id = ?", id).
		Update("movie_id", movieID).Error
}

func (r *watchHistoryRepository) Delete(ctx context.Context, id uint) error {
	return database.Conn(ctx, r.db).Where("watch_history_id = ?", id).Delete(&entity.WatchHistory{}).Error
}
