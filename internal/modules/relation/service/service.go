package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"anoa.com/moviecatalog/internal/modules/movie/cache"
	movieDto "anoa.com/moviecatalog/internal/modules/movie/dto"
	"anoa.com/moviecatalog/internal/modules/relation/dto"
	"anoa.com/moviecatalog/internal/modules/relation/repository"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/database"
	"gorm.io/gorm"
)

// RelationService maintains one of the movie join sets (genres or actors).
type RelationService[T any] interface {
	List(ctx context.Context, movieID uint) (*dto.RelationList[T], error)
	// Sync applies op inside one transaction: lock the movie, check every
	// id exists, then insert and delete join rows. Nothing is written when
	// any id is unknown.
	Sync(ctx context.Context, op Op, movieID uint, ids []uint) (*dto.MovieWithRelation[T], error)
}

type relationService[T any] struct {
	repo   repository.RelationRepository
	tables repository.Tables[T]
	cache  cache.MovieCache
	tx     database.Transactor
}

func NewRelationService[T any](
	repo repository.RelationRepository,
	tables repository.Tables[T],
	movieCache cache.MovieCache,
	tx database.Transactor,
) RelationService[T] {
	return &relationService[T]{repo: repo, tables: tables, cache: movieCache, tx: tx}
}

func (s *relationService[T]) List(ctx context.Context, movieID uint) (*dto.RelationList[T], error) {
	movie, err := s.repo.LoadMovie(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Movie")
		}
		return nil, fmt.Errorf("failed to load movie %s: %w", s.tables.Key, err)
	}

	return &dto.RelationList[T]{
		Key:   s.tables.Key,
		Movie: dto.MovieSummary{ID: movie.ID, Title: movie.Title},
		Items: s.tables.Items(movie),
	}, nil
}

func (s *relationService[T]) Sync(ctx context.Context, op Op, movieID uint, ids []uint) (*dto.MovieWithRelation[T], error) {
	ids = Dedupe(ids)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.LockMovie(ctx, movieID)
		if err != nil {
			return fmt.Errorf("failed to lock movie: %w", err)
		}
		if !exists {
			return apperror.NotFound("Movie")
		}

		missing, err := s.repo.MissingTargets(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", s.tables.Key, err)
		}
		if len(missing) > 0 {
			return apperror.New(
				http.StatusNotFound,
				fmt.Sprintf("%s not found: %s", s.tables.Noun, joinIDs(missing)),
				apperror.ErrNotFound,
			)
		}

		current, err := s.repo.CurrentIDs(ctx, movieID)
		if err != nil {
			return fmt.Errorf("failed to load current %s: %w", s.tables.Key, err)
		}

		add, remove := Plan(op, current, ids)
		if err := s.repo.Delete(ctx, movieID, remove); err != nil {
			return fmt.Errorf("failed to remove %s: %w", s.tables.Key, err)
		}
		if err := s.repo.Insert(ctx, movieID, add); err != nil {
			return fmt.Errorf("failed to add %s: %w", s.tables.Key, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, movieID)

	movie, err := s.repo.LoadMovie(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload movie: %w", err)
	}

	return &dto.MovieWithRelation[T]{
		Key:   s.tables.Key,
		Movie: movieDto.NewMovieResponse(movie),
		Items: s.tables.Items(movie),
	}, nil
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}
