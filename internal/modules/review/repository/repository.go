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

type ListQuery struct {
	MovieID *uint
	UserID  *uint
	Page    pagination.Params
}

type ReviewRepository interface {
	// List returns reviews with their user and movie.
	List(ctx context.Context, q ListQuery) ([]entity.Review, int64, error)
	FindByID(ctx context.Context, id uint) (*entity.Review, error)
	// FindWithRelations loads the review with its user and movie.
	FindWithRelations(ctx context.Context, id uint) (*entity.Review, error)
	// LockMovie takes a row lock on the movie and reports whether it exists.
	LockMovie(ctx context.Context, movieID uint) (bool, error)
	UserExists(ctx context.Context, userID uint) (bool, error)
	Exists(ctx context.Context, userID, movieID uint) (bool, error)
	Create(ctx context.Context, review *entity.Review) error
	UpdateRating(ctx context.Context, id uint, rating int) error
	Delete(ctx context.Context, id uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) List(ctx context.Context, q ListQuery) ([]entity.Review, int64, error) {
	query := database.Conn(ctx, r.db).Model(&entity.Review{})
	if q.MovieID != nil {
		query = query.Where("movie_id = ?", *q.MovieID)
	}
	if q.UserID != nil {
		query = query.Where("user_id = ?", *q.UserID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []entity.Review
	err := query.
		Preload("User").
		Preload("Movie").
		Order("review_id").
		Offset(q.Page.Offset()).
		Limit(q.Page.Limit()).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*entity.Review, error) {
	var review entity.Review
	if err := database.Conn(ctx, r.db).Where("review_id = ?", id).Take(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindWithRelations(ctx context.Context, id uint) (*entity.Review, error) {
	var review entity.Review
	err := database.Conn(ctx, r.db).
		Preload("User").
		Preload("Movie").
		Where("review_id = ?", id).
		Take(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) LockMovie(ctx context.Context, movieID uint) (bool, error) {
	var movie entity.Movie
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("movie_id").
		Where("movie_id = ?", movieID).
		Take(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *reviewRepository) UserExists(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.User{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) Exists(ctx context.Context, userID, movieID uint) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&entity.Review{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(review).Error
}

func (r *reviewRepository) UpdateRating(ctx context.Context, id uint, rating int) error {
	res := database.Conn(ctx, r.db).
		Model(&entity.Review{}).
		Where("review_id = ?", id).
		Update("rating", rating)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	res := database.Conn(ctx, r.db).Where("review_id = ?", id).Delete(&entity.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
