package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/internal/modules/genre/dto"
	"anoa.com/moviecatalog/internal/modules/genre/repository"
	"anoa.com/moviecatalog/internal/modules/movie/cache"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/database"
	"anoa.com/moviecatalog/pkg/pagination"
	"anoa.com/moviecatalog/pkg/sanitize"
	"gorm.io/gorm"
)

const nameTakenMessage = "The genre_name has already been taken."

type GenreService interface {
	List(ctx context.Context, filter dto.GenreFilter, page pagination.Params) ([]entity.Genre, pagination.Meta, error)
	Get(ctx context.Context, id uint) (*dto.GenreDetail, error)
	Create(ctx context.Context, req dto.CreateGenreRequest) (*entity.Genre, error)
	Update(ctx context.Context, id uint, req dto.UpdateGenreRequest) (*entity.Genre, error)
	Delete(ctx context.Context, id uint) error
}

type genreService struct {
	repo  repository.GenreRepository
	cache cache.MovieCache
	tx    database.Transactor
}

func NewGenreService(repo repository.GenreRepository, movieCache cache.MovieCache, tx database.Transactor) GenreService {
	return &genreService{repo: repo, cache: movieCache, tx: tx}
}

func (s *genreService) List(ctx context.Context, filter dto.GenreFilter, page pagination.Params) ([]entity.Genre, pagination.Meta, error) {
	genres, total, err := s.repo.List(ctx, filter.Search, page)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("failed to list genres: %w", err)
	}
	if genres == nil {
		genres = []entity.Genre{}
	}
	return genres, pagination.NewMeta(page, total, len(genres)), nil
}

func (s *genreService) Get(ctx context.Context, id uint) (*dto.GenreDetail, error) {
	genre, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Genre")
		}
		return nil, fmt.Errorf("failed to get genre: %w", err)
	}
	detail := dto.NewGenreDetail(genre)
	return &detail, nil
}

func (s *genreService) Create(ctx context.Context, req dto.CreateGenreRequest) (*entity.Genre, error) {
	name, err := s.checkName(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}

	genre := &entity.Genre{Name: name}
	if err := s.repo.Create(ctx, genre); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.NewValidationError("genre_name", nameTakenMessage)
		}
		return nil, fmt.Errorf("failed to create genre: %w", err)
	}
	return genre, nil
}

func (s *genreService) Update(ctx context.Context, id uint, req dto.UpdateGenreRequest) (*entity.Genre, error) {
	var genre *entity.Genre
	var movieIDs []uint

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		genre, err = s.repo.Lock(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Genre")
			}
			return fmt.Errorf("failed to lock genre: %w", err)
		}
		if req.Name == nil {
			return nil
		}

		name, err := s.checkName(ctx, *req.Name, id)
		if err != nil {
			return err
		}
		if err := s.repo.Rename(ctx, id, name); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.NewValidationError("genre_name", nameTakenMessage)
			}
			return fmt.Errorf("failed to update genre: %w", err)
		}
		genre.Name = name

		movieIDs, err = s.repo.MovieIDs(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list genre movies: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, movieIDs...)
	return genre, nil
}

func (s *genreService) Delete(ctx context.Context, id uint) error {
	var movieIDs []uint

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.Lock(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Genre")
			}
			return fmt.Errorf("failed to lock genre: %w", err)
		}

		var err error
		movieIDs, err = s.repo.MovieIDs(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list genre movies: %w", err)
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete genre: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, movieIDs...)
	return nil
}

// checkName sanitizes name and rejects it when empty or used by another genre.
func (s *genreService) checkName(ctx context.Context, raw string, exceptID uint) (string, error) {
	name := sanitize.Text(raw)
	if name == "" {
		return "", apperror.NewValidationError("genre_name", "The genre_name field is required.")
	}

	taken, err := s.repo.NameTaken(ctx, name, exceptID)
	if err != nil {
		return "", fmt.Errorf("failed to check genre name: %w", err)
	}
	if taken {
		return "", apperror.NewValidationError("genre_name", nameTakenMessage)
	}
	return name, nil
}
