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
	Search     string
	GenreID    *uint
	SortColumn string
	Desc       bool
	Page       pagination.Params
}

type MovieRepository interface {
	List(ctx context.Context, q ListQuery) ([]entity.Movie, int64, error)
	// FindByID loads the movie with its genres and actors.
	FindByID(ctx context.Context, id uint) (*entity.Movie, error)
	Create(ctx context.Context, movie *entity.Movie) error
	Update(ctx context.Context, id uint, fields map[string]any) error
	// Lock takes a row lock on the movie inside the current transaction.
	Lock(ctx context.Context, id uint) (*entity.Movie, error)
	// DeleteCascade removes the movie after its join rows, reviews and
	// watch history, in that order.
	DeleteCascade(ctx context.Context, id uint) error
}

type movieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

func (r *movieRepository) List(ctx context.Context, q ListQuery) ([]entity.Movie, int64, error) {
	query := database.Conn(ctx, r.db).Model(&entity.Movie{})

	if q.Search != "" {
		query = query.Where("movie_title ILIKE ?", database.Contains(q.Search))
	}
	if q.GenreID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM movie_genres mg WHERE mg.movie_id = movies.movie_id AND mg.genre_id = ?)",
			*q.GenreID,
		)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movies []entity.Movie
	err := query.
		Preload("Genres", orderBy("genre_name")).
		Preload("Actors", orderBy("actor_name")).
		Order(clause.OrderByColumn{Column: clause.Column{Name: q.SortColumn}, Desc: q.Desc}).
		Order("movie_id").
		Offset(q.Page.Offset()).
		Limit(q.Page.Limit()).
		Find(&movies).Error
	if err != nil {
		return nil, 0, err
	}

	return movies, total, nil
}

func (r *movieRepository) FindByID(ctx context.Context, id uint) (*entity.Movie, error) {
	var movie entity.Movie
	err := database.Conn(ctx, r.db).
		Preload("Genres", orderBy("genre_name")).
		Preload("Actors", orderBy("actor_name")).
		Where("movie_id = ?", id).
		Take(&movie).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(movie).Error
}

func (r *movieRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).
		Model(&entity.Movie{}).
		Where("movie_id = ?", id).
		Updates(fields).Error
}

func (r *movieRepository) Lock(ctx context.Context, id uint) (*entity.Movie, error) {
	var movie entity.Movie
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("movie_id = ?", id).
		Take(&movie).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) DeleteCascade(ctx context.Context, id uint) error {
	db := database.Conn(ctx, r.db)

	steps := []any{
		&entity.MovieGenre{},
		&entity.MovieActor{},
		&entity.Review{},
		&entity.WatchHistory{},
	}
	for _, model := range steps {
		if err := db.Where("movie_id = ?", id).Delete(model).Error; err != nil {
			return err
		}
	}

	res := db.Where("movie_id = ?", id).Delete(&entity.Movie{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func orderBy(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column)
	}
}

// IsNotFound reports whether err is gorm's missing record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
