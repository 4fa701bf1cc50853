package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/internal/modules/movie/cache"
	"anoa.com/moviecatalog/internal/modules/policy"
	rating "anoa.com/moviecatalog/internal/modules/rating/service"
	"anoa.com/moviecatalog/internal/modules/review/dto"
	"anoa.com/moviecatalog/internal/modules/review/repository"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/database"
	"anoa.com/moviecatalog/pkg/pagination"
	"anoa.com/moviecatalog/pkg/ratelimiter"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const duplicateReviewMessage = "You have already reviewed this movie"

// ReviewService manages reviews. Every change to a movie's review set
// recomputes the movie's average in the same transaction.
type ReviewService interface {
	List(ctx context.Context, actor *policy.Actor, filter dto.ReviewFilter, page pagination.Params) ([]entity.Review, pagination.Meta, error)
	Get(ctx context.Context, actor *policy.Actor, id uint) (*entity.Review, error)
	Create(ctx context.Context, actor *policy.Actor, req dto.CreateReviewRequest) (*entity.Review, error)
	Update(ctx context.Context, actor *policy.Actor, id uint, req dto.UpdateReviewRequest) (*entity.Review, error)
	Delete(ctx context.Context, actor *policy.Actor, id uint) error
}

type reviewService struct {
	repo        repository.ReviewRepository
	ratings     rating.RatingService
	policy      policy.Policy
	cache       cache.MovieCache
	tx          database.Transactor
	redisClient *redis.Client
	cooldown    time.Duration
}

func NewReviewService(
	repo repository.ReviewRepository,
	ratings rating.RatingService,
	p policy.Policy,
	movieCache cache.MovieCache,
	tx database.Transactor,
	redisClient *redis.Client,
	cooldown time.Duration,
) ReviewService {
	return &reviewService{
		repo:        repo,
		ratings:     ratings,
		policy:      p,
		cache:       movieCache,
		tx:          tx,
		redisClient: redisClient,
		cooldown:    cooldown,
	}
}

func (s *reviewService) List(ctx context.Context, actor *policy.Actor, filter dto.ReviewFilter, page pagination.Params) ([]entity.Review, pagination.Meta, error) {
	if err := s.policy.Authorize(actor, policy.ActionList, policy.Of(policy.KindReview)).Err(); err != nil {
		return nil, pagination.Meta{}, err
	}

	reviews, total, err := s.repo.List(ctx, repository.ListQuery{
		MovieID: filter.MovieID,
		UserID:  filter.UserID,
		Page:    page,
	})
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("failed to list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []entity.Review{}
	}
	return reviews, pagination.NewMeta(page, total, len(reviews)), nil
}

func (s *reviewService) Get(ctx context.Context, actor *policy.Actor, id uint) (*entity.Review, error) {
	review, err := s.repo.FindWithRelations(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "failed to get review")
	}
	if err := s.policy.Authorize(actor, policy.ActionRead, policy.Owned(policy.KindReview, review.UserID)).Err(); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Create(ctx context.Context, actor *policy.Actor, req dto.CreateReviewRequest) (*entity.Review, error) {
	if actor == nil {
		return nil, apperror.Unauthorized("Unauthenticated.")
	}

	userID := actor.ID
	if req.UserID != nil {
		userID = *req.UserID
	}

	release, err := s.checkCreateReviewRateLimit(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	review := &entity.Review{
		UserID:     userID,
		MovieID:    req.MovieID,
		Rating:     req.Rating,
		ReviewDate: entity.Today(),
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.LockMovie(ctx, req.MovieID)
		if err != nil {
			return fmt.Errorf("failed to lock movie: %w", err)
		}
		if !exists {
			return apperror.NotFound("Movie")
		}

		exists, err = s.repo.UserExists(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if !exists {
			return apperror.NotFound("User")
		}

		if err := s.policy.Authorize(actor, policy.ActionCreate, policy.Owned(policy.KindReview, userID)).Err(); err != nil {
			return err
		}

		reviewed, err := s.repo.Exists(ctx, userID, req.MovieID)
		if err != nil {
			return fmt.Errorf("failed to check existing review: %w", err)
		}
		if reviewed {
			return apperror.Conflict(duplicateReviewMessage)
		}

		if err := s.repo.Create(ctx, review); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.Conflict(duplicateReviewMessage)
			}
			return fmt.Errorf("failed to create review: %w", err)
		}

		_, err = s.ratings.Recompute(ctx, req.MovieID)
		return err
	})
	if err != nil {
		release()
		return nil, err
	}

	s.cache.Invalidate(ctx, req.MovieID)
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, actor *policy.Actor, id uint, req dto.UpdateReviewRequest) (*entity.Review, error) {
	var movieID uint

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		review, err := s.load(ctx, actor, policy.ActionUpdate, id)
		if err != nil {
			return err
		}
		movieID = review.MovieID

		if _, err := s.repo.LockMovie(ctx, movieID); err != nil {
			return fmt.Errorf("failed to lock movie: %w", err)
		}
		if err := s.repo.UpdateRating(ctx, id, req.Rating); err != nil {
			return notFoundOr(err, "failed to update review")
		}

		_, err = s.ratings.Recompute(ctx, movieID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, movieID)

	review, err := s.repo.FindWithRelations(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload review: %w", err)
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, actor *policy.Actor, id uint) error {
	var movieID uint

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		review, err := s.load(ctx, actor, policy.ActionDelete, id)
		if err != nil {
			return err
		}
		// The row is gone after the delete, so keep its movie for the recompute.
		movieID = review.MovieID

		if _, err := s.repo.LockMovie(ctx, movieID); err != nil {
			return fmt.Errorf("failed to lock movie: %w", err)
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return notFoundOr(err, "failed to delete review")
		}

		_, err = s.ratings.Recompute(ctx, movieID)
		return err
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, movieID)
	return nil
}

// load fetches the review and then checks the caller may act on it, so a
// missing review is reported before a denied one.
func (s *reviewService) load(ctx context.Context, actor *policy.Actor, action policy.Action, id uint) (*entity.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "failed to load review")
	}
	if err := s.policy.Authorize(actor, action, policy.Owned(policy.KindReview, review.UserID)).Err(); err != nil {
		return nil, err
	}
	return review, nil
}

// checkCreateReviewRateLimit claims the caller's review cooldown. The
// returned func releases it when the review is not created after all.
func (s *reviewService) checkCreateReviewRateLimit(ctx context.Context, userID uint) (func(), error) {
	allowed, err := ratelimiter.CheckAndSetRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeReview, s.cooldown)
	if err != nil {
		// Limiter failures let the review through.
		log.WithError(err).WithField("user_id", userID).Warn("review rate limit check failed")
		return func() {}, nil
	}
	if !allowed {
		ttl, _ := ratelimiter.GetRateLimitTTL(ctx, s.redisClient, userID, ratelimiter.ScopeReview)
		return nil, &apperror.RateLimitError{RetryAfter: ttl}
	}

	return func() {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeReview)
	}, nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("Review")
	}
	return fmt.Errorf("%s: %w", msg, err)
}
