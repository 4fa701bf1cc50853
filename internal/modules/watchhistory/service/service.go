package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/internal/modules/policy"
	"anoa.com/moviecatalog/internal/modules/watchhistory/dto"
	"anoa.com/moviecatalog/internal/modules/watchhistory/repository"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/database"
	"anoa.com/moviecatalog/pkg/pagination"
	"gorm.io/gorm"
)

type WatchHistoryService interface {
	List(ctx context.Context, actor *policy.Actor, filter dto.WatchHistoryFilter, page pagination.Params) ([]entity.WatchHistory, pagination.Meta, error)
	Get(ctx context.Context, actor *policy.Actor, id uint) (*entity.WatchHistory, error)
	Create(ctx context.Context, actor *policy.Actor, req dto.CreateWatchHistoryRequest) (*entity.WatchHistory, error)
	Update(ctx context.Context, actor *policy.Actor, id uint, req dto.UpdateWatchHistoryRequest) (*entity.WatchHistory, error)
	Delete(ctx context.Context, actor *policy.Actor, id uint) error
}

type watchHistoryService struct {
	repo   repository.WatchHistoryRepository
	policy policy.Policy
	tx     database.Transactor
}

func NewWatchHistoryService(repo repository.WatchHistoryRepository, p policy.Policy, tx database.Transactor) WatchHistoryService {
	return &watchHistoryService{repo: repo, policy: p, tx: tx}
}

func (s *watchHistoryService) List(ctx context.Context, actor *policy.Actor, filter dto.WatchHistoryFilter, page pagination.Params) ([]entity.WatchHistory, pagination.Meta, error) {
	if actor == nil {
		return nil, pagination.Meta{}, apperror.Unauthorized("Unauthenticated.")
	}

	userID := actor.ID
	if filter.UserID != nil {
		userID = *filter.UserID
	}
	if err := s.policy.Authorize(actor, policy.ActionList, policy.Owned(policy.KindWatchHistory, userID)).Err(); err != nil {
		return nil, pagination.Meta{}, err
	}

	entries, total, err := s.repo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("failed to list watch history: %w", err)
	}
	if entries == nil {
		entries = []entity.WatchHistory{}
	}
	return entries, pagination.NewMeta(page, total, len(entries)), nil
}

func (s *watchHistoryService) Get(ctx context.Context, actor *policy.Actor, id uint) (*entity.WatchHistory, error) {
	return s.load(ctx, actor, policy.ActionRead, id)
}

func (s *watchHistoryService) Create(ctx context.Context, actor *policy.Actor, req dto.CreateWatchHistoryRequest) (*entity.WatchHistory, error) {
	if actor == nil {
		return nil, apperror.Unauthorized("Unauthenticated.")
	}

	userID := actor.ID
	if req.UserID != nil {
		userID = *req.UserID
	}

	entry := &entity.WatchHistory{
		UserID:    userID,
		MovieID:   req.MovieID,
		WatchDate: entity.Today(),
	}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireMovie(ctx, req.MovieID); err != nil {
			return err
		}
		exists, err := s.repo.LockUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if !exists {
			return apperror.NotFound("User")
		}
		if err := s.policy.Authorize(actor, policy.ActionCreate, policy.Owned(policy.KindWatchHistory, userID)).Err(); err != nil {
			return err
		}

		if err := s.repo.Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to create watch history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, entry.ID)
}

func (s *watchHistoryService) Update(ctx context.Context, actor *policy.Actor, id uint, req dto.UpdateWatchHistoryRequest) (*entity.WatchHistory, error) {
	entry, err := s.load(ctx, actor, policy.ActionUpdate, id)
	if err != nil {
		return nil, err
	}
	if req.MovieID == nil || *req.MovieID == entry.MovieID {
		return entry, nil
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireMovie(ctx, *req.MovieID); err != nil {
			return err
		}
		if err := s.repo.UpdateMovie(ctx, id, *req.MovieID); err != nil {
			return fmt.Errorf("failed to update watch history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, id)
}

func (s *watchHistoryService) Delete(ctx context.Context, actor *policy.Actor, id uint) error {
	if _, err := s.load(ctx, actor, policy.ActionDelete, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete watch history: %w", err)
	}
	return nil
}

func (s *watchHistoryService) load(ctx context.Context, actor *policy.Actor, action policy.Action, id uint) (*entity.WatchHistory, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Watch history")
		}
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}
	if err := s.policy.Authorize(actor, action, policy.Owned(policy.KindWatchHistory, entry.UserID)).Err(); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *watchHistoryService) reload(ctx context.Context, id uint) (*entity.WatchHistory, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload watch history: %w", err)
	}
	return entry, nil
}

func (s *watchHistoryService) requireMovie(ctx context.Context, movieID uint) error {
	exists, err := s.repo.LockMovie(ctx, movieID)
	if err != nil {
		return fmt.Errorf("failed to check movie: %w", err)
	}
	if !exists {
		return apperror.NotFound("Movie")
	}
	return nil
}
