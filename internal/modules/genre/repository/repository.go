package repository

import (
	"context"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/pkg/database"
	"anoa.com/moviecatalog/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GenreRepository interface {
	List(ctx context.Context, search string, page pagination.Params) ([]entity.Genre, int64, error)
	// FindByID loads the genre with its movies ordered by title.
	FindByID(ctx context.Context, id uint) (*entity.Genre, error)
	// NameTaken reports whether another genre already uses name.
	NameTaken(ctx context.Context, name string, exceptID uint) (bool, error)
	Create(ctx context.Context, genre *entity.Genre) error
	Rename(ctx context.Context, id uint, name string) error
	Lock(ctx context.Context, id uint) (*entity.Genre, error)
	// MovieIDs lists the movies linked to the genre.
	MovieIDs(ctx context.Context, id uint) ([]uint, error)
	// Delete removes the genre's join rows, then the genre.
	Delete(ctx context.Context, id uint) error
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) List(ctx context.Context, search string, page pagination.Params) ([]entity.Genre, int64, error) {
	query := database.Conn(ctx, r.db).Model(&entity.Genre{})
	if search != "" {
		query = query.Where("genre_name ILIKE ?", database.Contains(search))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var genres []entity.Genre
	err := query.
		Order("genre_id").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&genres).Error
	if err != nil {
		return nil, 0, err
	}
	return genres, total, nil
}

func (r *genreRepository) FindByID(ctx context.Context, id uint) (*entity.Genre, error) {
	var genre entity.Genre
	err := database.Conn(ctx, r.db).
		Preload("Movies", func(db *gorm.DB) *gorm.DB { return db.Order("movie_title") }).
		Where("genre_id = ?", id).
		Take(&genre).Error
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *genreRepository) NameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&entity.Genre{}).
		Where("genre_name = ? AND genre_id <> ?", name, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *genreRepository) Create(ctx context.Context, genre *entity.Genre) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(genre).Error
}

func (r *genreRepository) Rename(ctx context.Context, id uint, name string) error {
	return database.Conn(ctx, r.db).
		Model(&entity.Genre{}).
		Where("genre_id = ?", id).
		Update("genre_name", name).Error
}

func (r *genreRepository) Lock(ctx context.Context, id uint) (*entity.Genre, error) {
	var genre entity.Genre
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("genre_id = ?", id).
		Take(&genre).Error
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *genreRepository) MovieIDs(ctx context.Context, id uint) ([]uint, error) {
	var ids []uint
	err := database.Conn(ctx, r.db).
		Model(&entity.MovieGenre{}).
		Where("genre_id = ?", id).
		Pluck("movie_id", &ids).Error
	return ids, err
}

func (r *genreRepository) Delete(ctx context.Context, id uint) error {
	db := database.Conn(ctx, r.db)
	if err := db.Where("genre_id = ?", id).Delete(&entity.MovieGenre{}).Error; err != nil {
		return err
	}
	return db.Where("genre_id = ?", id).Delete(&entity.Genre{}).Error
}
