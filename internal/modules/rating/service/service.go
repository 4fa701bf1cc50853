package service

import (
	"context"
	"fmt"

	"anoa.com/moviecatalog/internal/modules/rating/repository"
	"anoa.com/moviecatalog/pkg/database"
)

// RatingService keeps movies.average_rating equal to the rounded mean of the
// movie's reviews.
type RatingService interface {
	// Recompute locks the movie, recalculates and stores its average. It joins
	// the caller's transaction so the review change and the new average commit
	// together. A missing movie is a no-op.
	Recompute(ctx context.Context, movieID uint) (*float64, error)
}

type ratingService struct {
	repo repository.RatingRepository
	tx   database.Transactor
}

func NewRatingService(repo repository.RatingRepository, tx database.Transactor) RatingService {
	return &ratingService{repo: repo, tx: tx}
}

func (s *ratingService) Recompute(ctx context.Context, movieID uint) (*float64, error) {
	var avg *float64
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.LockMovie(ctx, movieID)
		if err != nil {
			return fmt.Errorf("failed to lock movie %d: %w", movieID, err)
		}
		if !exists {
			return nil
		}

		ratings, err := s.repo.Ratings(ctx, movieID)
		if err != nil {
			return fmt.Errorf("failed to load ratings for movie %d: %w", movieID, err)
		}

		avg = Average(ratings)
		if err := s.repo.SaveAverage(ctx, movieID, avg); err != nil {
			return fmt.Errorf("failed to save average for movie %d: %w", movieID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return avg, nil
}
