package repository

import (
	"context"
	"errors"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	// LockMovie takes a row lock on the movie for the rest of the
	// transaction and reports whether it exists.
	LockMovie(ctx context.Context, movieID uint) (bool, error)
	Ratings(ctx context.Context, movieID uint) ([]int, error)
	SaveAverage(ctx context.Context, movieID uint, avg *float64) error
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) LockMovie(ctx context.Context, movieID uint) (bool, error) {
	var movie entity.Movie
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("movie_id").
		Where("movie_id = ?", movieID).
		Take(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *ratingRepository) Ratings(ctx context.Context, movieID uint) ([]int, error) {
	var ratings []int
	err := database.Conn(ctx, r.db).
		Model(&entity.Review{}).
		Where("movie_id = ?", movieID).
		Pluck("rating", &ratings).Error
	return ratings, err
}

func (r *ratingRepository) SaveAverage(ctx context.Context, movieID uint, avg *float64) error {
	var value any = gorm.Expr("NULL")
	if avg != nil {
		value = *avg
	}
	return database.Conn(ctx, r.db).
		Model(&entity.Movie{}).
		Where("movie_id = ?", movieID).
		Update("average_rating", value).Error
}
