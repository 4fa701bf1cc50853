package service

import (
	"context"
	"fmt"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/internal/modules/movie/cache"
	"anoa.com/moviecatalog/internal/modules/movie/dto"
	"anoa.com/moviecatalog/internal/modules/movie/repository"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/database"
	"anoa.com/moviecatalog/pkg/pagination"
	"anoa.com/moviecatalog/pkg/sanitize"
)

type MovieService interface {
	List(ctx context.Context, filter dto.MovieFilter, page pagination.Params) ([]dto.MovieResponse, pagination.Meta, dto.MovieFilters, error)
	Get(ctx context.Context, id uint) (*dto.MovieResponse, error)
	Create(ctx context.Context, req dto.CreateMovieRequest) (*dto.MovieResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateMovieRequest) (*dto.MovieResponse, error)
	Delete(ctx context.Context, id uint) error
}

type movieService struct {
	repo  repository.MovieRepository
	cache cache.MovieCache
	tx    database.Transactor
}

func NewMovieService(repo repository.MovieRepository, movieCache cache.MovieCache, tx database.Transactor) MovieService {
	return &movieService{repo: repo, cache: movieCache, tx: tx}
}

func (s *movieService) List(ctx context.Context, filter dto.MovieFilter, page pagination.Params) ([]dto.MovieResponse, pagination.Meta, dto.MovieFilters, error) {
	key, column, direction := dto.ResolveSort(filter.SortBy, filter.Order)
	echo := dto.MovieFilters{GenreID: filter.GenreID, SortBy: key, Order: direction}
	if filter.Search != "" {
		echo.Search = &filter.Search
	}

	movies, total, err := s.repo.List(ctx, repository.ListQuery{
		Search:     filter.Search,
		GenreID:    filter.GenreID,
		SortColumn: column,
		Desc:       direction == dto.SortDesc,
		Page:       page,
	})
	if err != nil {
		return nil, pagination.Meta{}, echo, fmt.Errorf("failed to list movies: %w", err)
	}

	return dto.NewMovieResponses(movies), pagination.NewMeta(page, total, len(movies)), echo, nil
}

func (s *movieService) Get(ctx context.Context, id uint) (*dto.MovieResponse, error) {
	cached, version, ok := s.cache.Get(ctx, id)
	if ok {
		resp := dto.NewMovieResponse(cached)
		return &resp, nil
	}

	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound("Movie")
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	s.cache.Set(ctx, movie, version)
	resp := dto.NewMovieResponse(movie)
	return &resp, nil
}

func (s *movieService) Create(ctx context.Context, req dto.CreateMovieRequest) (*dto.MovieResponse, error) {
	movie := &entity.Movie{
		Title:          sanitize.Text(req.Title),
		Duration:       req.Duration,
		ProductionYear: req.ProductionYear,
		Poster:         sanitize.OptionalText(req.Poster),
		DescriptionEN:  sanitize.OptionalText(req.DescriptionEN),
		DescriptionID:  sanitize.OptionalText(req.DescriptionID),
		TrailerURL:     sanitize.OptionalText(req.TrailerURL),
	}
	if movie.Title == "" {
		return nil, apperror.NewValidationError("movie_title", "The movie_title field is required.")
	}

	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	resp := dto.NewMovieResponse(movie)
	return &resp, nil
}

func (s *movieService) Update(ctx context.Context, id uint, req dto.UpdateMovieRequest) (*dto.MovieResponse, error) {
	fields, err := updateFields(req)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.Lock(ctx, id); err != nil {
			if repository.IsNotFound(err) {
				return apperror.NotFound("Movie")
			}
			return fmt.Errorf("failed to lock movie: %w", err)
		}
		if err := s.repo.Update(ctx, id, fields); err != nil {
			return fmt.Errorf("failed to update movie: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, id)

	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload movie: %w", err)
	}
	resp := dto.NewMovieResponse(movie)
	return &resp, nil
}

func (s *movieService) Delete(ctx context.Context, id uint) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.Lock(ctx, id); err != nil {
			if repository.IsNotFound(err) {
				return apperror.NotFound("Movie")
			}
			return fmt.Errorf("failed to lock movie: %w", err)
		}
		if err := s.repo.DeleteCascade(ctx, id); err != nil {
			return fmt.Errorf("failed to delete movie: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, id)
	return nil
}

func updateFields(req dto.UpdateMovieRequest) (map[string]any, error) {
	fields := map[string]any{}

	if req.Title != nil {
		title := sanitize.Text(*req.Title)
		if title == "" {
			return nil, apperror.NewValidationError("movie_title", "The movie_title field is required.")
		}
		fields["movie_title"] = title
	}
	if req.Duration != nil {
		fields["movie_duration"] = *req.Duration
	}
	if req.ProductionYear != nil {
		fields["production_year"] = *req.ProductionYear
	}
	optional := map[string]*string{
		"movie_poster":         req.Poster,
		"movie_description_en": req.DescriptionEN,
		"movie_description_id": req.DescriptionID,
		"trailer_url":          req.TrailerURL,
	}
	for column, value := range optional {
		if value != nil {
			fields[column] = sanitize.OptionalText(value)
		}
	}

	return fields, nil
}
