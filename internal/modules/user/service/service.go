package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/internal/modules/movie/cache"
	"anoa.com/moviecatalog/internal/modules/policy"
	rating "anoa.com/moviecatalog/internal/modules/rating/service"
	"anoa.com/moviecatalog/internal/modules/user/dto"
	"anoa.com/moviecatalog/internal/modules/user/repository"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/database"
	"anoa.com/moviecatalog/pkg/pagination"
	"anoa.com/moviecatalog/pkg/sanitize"
	"gorm.io/gorm"
)

type UserService interface {
	List(ctx context.Context, actor *policy.Actor, filter dto.UserFilter, page pagination.Params) ([]entity.User, pagination.Meta, error)
	Get(ctx context.Context, actor *policy.Actor, id uint) (*entity.User, error)
	Update(ctx context.Context, actor *policy.Actor, id uint, req dto.UpdateUserRequest) (*entity.User, error)
	// Delete removes the user with their reviews, watch history and tokens,
	// and recomputes the average of every movie they reviewed.
	Delete(ctx context.Context, actor *policy.Actor, id uint) error
}

type userService struct {
	repo    repository.UserRepository
	ratings rating.RatingService
	policy  policy.Policy
	cache   cache.MovieCache
	tx      database.Transactor
}

func NewUserService(
	repo repository.UserRepository,
	ratings rating.RatingService,
	p policy.Policy,
	movieCache cache.MovieCache,
	tx database.Transactor,
) UserService {
	return &userService{repo: repo, ratings: ratings, policy: p, cache: movieCache, tx: tx}
}

func (s *userService) List(ctx context.Context, actor *policy.Actor, filter dto.UserFilter, page pagination.Params) ([]entity.User, pagination.Meta, error) {
	if err := s.policy.Authorize(actor, policy.ActionList, policy.Of(policy.KindUser)).Err(); err != nil {
		return nil, pagination.Meta{}, err
	}

	users, total, err := s.repo.List(ctx, strings.TrimSpace(filter.Search), page)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []entity.User{}
	}
	return users, pagination.NewMeta(page, total, len(users)), nil
}

func (s *userService) Get(ctx context.Context, actor *policy.Actor, id uint) (*entity.User, error) {
	user, err := s.repo.FindProfile(ctx, id)
	if err != nil {
		return nil, userNotFoundOr(err, "failed to get user")
	}
	if err := s.policy.Authorize(actor, policy.ActionRead, policy.Owned(policy.KindUser, user.ID)).Err(); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, actor *policy.Actor, id uint, req dto.UpdateUserRequest) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, userNotFoundOr(err, "failed to get user")
	}
	if err := s.policy.Authorize(actor, policy.ActionUpdate, policy.Owned(policy.KindUser, user.ID)).Err(); err != nil {
		return nil, err
	}

	fields, err := s.updateFields(ctx, actor, user, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.NewValidationError("user_email", emailTakenMessage)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.repo.FindByID(ctx, id)
}

// updateFields builds the column changes. Only admins may change a role.
func (s *userService) updateFields(ctx context.Context, actor *policy.Actor, user *entity.User, req dto.UpdateUserRequest) (map[string]any, error) {
	fields := map[string]any{}

	if req.Nickname != nil {
		nickname := sanitize.Text(*req.Nickname)
		if nickname == "" {
			return nil, apperror.NewValidationError("user_nickname", "The user_nickname field is required.")
		}
		fields["user_nickname"] = nickname
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		taken, err := s.repo.EmailTaken(ctx, email, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, apperror.NewValidationError("user_email", emailTakenMessage)
		}
		fields["user_email"] = email
	}

	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		fields["password"] = hash
	}

	if req.Plan != nil {
		fields["plan"] = *req.Plan
	}

	if req.Role != nil && *req.Role != user.Role {
		if !actor.IsAdmin() {
			return nil, apperror.Forbidden("Forbidden. Admin access required.")
		}
		fields["role"] = *req.Role
	}

	return fields, nil
}

func (s *userService) Delete(ctx context.Context, actor *policy.Actor, id uint) error {
	var movieIDs []uint

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return userNotFoundOr(err, "failed to get user")
		}
		if err := s.policy.Authorize(actor, policy.ActionDelete, policy.Owned(policy.KindUser, user.ID)).Err(); err != nil {
			return err
		}

		movieIDs, err = s.repo.ReviewedMovieIDs(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list reviewed movies: %w", err)
		}
		if err := s.repo.LockMovies(ctx, movieIDs); err != nil {
			return fmt.Errorf("failed to lock reviewed movies: %w", err)
		}

		if err := s.repo.DeleteCascade(ctx, id); err != nil {
			return userNotFoundOr(err, "failed to delete user")
		}

		for _, movieID := range movieIDs {
			if _, err := s.ratings.Recompute(ctx, movieID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, movieIDs...)
	return nil
}

func userNotFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("User")
	}
	return fmt.Errorf("%s: %w", msg, err)
}
