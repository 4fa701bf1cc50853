package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/internal/modules/actor/dto"
	"anoa.com/moviecatalog/internal/modules/actor/repository"
	"anoa.com/moviecatalog/internal/modules/movie/cache"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/database"
	"anoa.com/moviecatalog/pkg/pagination"
	"anoa.com/moviecatalog/pkg/sanitize"
	"gorm.io/gorm"
)

type ActorService interface {
	List(ctx context.Context, filter dto.ActorFilter, page pagination.Params) ([]entity.Actor, pagination.Meta, error)
	Get(ctx context.Context, id uint) (*dto.ActorDetail, error)
	Create(ctx context.Context, req dto.CreateActorRequest) (*entity.Actor, error)
	Update(ctx context.Context, id uint, req dto.UpdateActorRequest) (*entity.Actor, error)
	Delete(ctx context.Context, id uint) error
}

type actorService struct {
	repo  repository.ActorRepository
	cache cache.MovieCache
	tx    database.Transactor
}

func NewActorService(repo repository.ActorRepository, movieCache cache.MovieCache, tx database.Transactor) ActorService {
	return &actorService{repo: repo, cache: movieCache, tx: tx}
}

func (s *actorService) List(ctx context.Context, filter dto.ActorFilter, page pagination.Params) ([]entity.Actor, pagination.Meta, error) {
	actors, total, err := s.repo.List(ctx, filter.Search, page)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("failed to list actors: %w", err)
	}
	if actors == nil {
		actors = []entity.Actor{}
	}
	return actors, pagination.NewMeta(page, total, len(actors)), nil
}

func (s *actorService) Get(ctx context.Context, id uint) (*dto.ActorDetail, error) {
	actor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Actor")
		}
		return nil, fmt.Errorf("failed to get actor: %w", err)
	}
	detail := dto.NewActorDetail(actor)
	return &detail, nil
}

func (s *actorService) Create(ctx context.Context, req dto.CreateActorRequest) (*entity.Actor, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return nil, err
	}

	actor := &entity.Actor{Name: name}
	if err := s.repo.Create(ctx, actor); err != nil {
		return nil, fmt.Errorf("failed to create actor: %w", err)
	}
	return actor, nil
}

func (s *actorService) Update(ctx context.Context, id uint, req dto.UpdateActorRequest) (*entity.Actor, error) {
	var actor *entity.Actor
	var movieIDs []uint

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		actor, err = s.repo.Lock(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Actor")
			}
			return fmt.Errorf("failed to lock actor: %w", err)
		}
		if req.Name == nil {
			return nil
		}

		name, err := cleanName(*req.Name)
		if err != nil {
			return err
		}
		if err := s.repo.Rename(ctx, id, name); err != nil {
			return fmt.Errorf("failed to update actor: %w", err)
		}
		actor.Name = name

		movieIDs, err = s.repo.MovieIDs(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list actor movies: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, movieIDs...)
	return actor, nil
}

func (s *actorService) Delete(ctx context.Context, id uint) error {
	var movieIDs []uint

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.Lock(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Actor")
			}
			return fmt.Errorf("failed to lock actor: %w", err)
		}

		var err error
		movieIDs, err = s.repo.MovieIDs(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list actor movies: %w", err)
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, movieIDs...)
	return nil
}

func cleanName(raw string) (string, error) {
	name := sanitize.Text(raw)
	if name == "" {
		return "", apperror.NewValidationError("actor_name", "The actor_name field is required.")
	}
	return name, nil
}
