package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeRatingRepository struct {
	movies  map[uint]bool
	ratings map[uint][]int
	saved   map[uint]*float64
	locked  []uint
	saveErr error
}

func newFakeRatingRepository() *fakeRatingRepository {
	return &fakeRatingRepository{
		movies:  map[uint]bool{},
		ratings: map[uint][]int{},
		saved:   map[uint]*float64{},
	}
}

func (f *fakeRatingRepository) LockMovie(_ context.Context, movieID uint) (bool, error) {
	f.locked = append(f.locked, movieID)
	return f.movies[movieID], nil
}

func (f *fakeRatingRepository) Ratings(_ context.Context, movieID uint) ([]int, error) {
	return f.ratings[movieID], nil
}

func (f *fakeRatingRepository) SaveAverage(_ context.Context, movieID uint, avg *float64) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[movieID] = avg
	return nil
}

func TestAverage(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    *float64
	}{
		{"no reviews", nil, nil},
		{"single", []int{8}, ptr(8.0)},
		{"exact half", []int{7, 8}, ptr(7.5)},
		{"rounds up thirds", []int{8, 8, 7}, ptr(7.7)},
		{"rounds down thirds", []int{1, 1, 2}, ptr(1.3)},
		{"half away from zero", []int{8, 8, 8, 9}, ptr(8.3)},
		{"tens", []int{10, 10}, ptr(10.0)},
		{"bounds", []int{1, 10}, ptr(5.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Average(tt.ratings)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestRecomputeWritesAverage(t *testing.T) {
	repo := newFakeRatingRepository()
	repo.movies[3] = true
	repo.ratings[3] = []int{9, 8, 8}
	tx := &fakeTransactor{}

	avg, err := NewRatingService(repo, tx).Recompute(context.Background(), 3)
	require.NoError(t, err)

	require.NotNil(t, avg)
	assert.Equal(t, 8.3, *avg)
	assert.Equal(t, 8.3, *repo.saved[3])
	assert.Equal(t, []uint{3}, repo.locked)
	assert.Equal(t, 1, tx.calls)
}

func TestRecomputeClearsAverageWithoutReviews(t *testing.T) {
	repo := newFakeRatingRepository()
	repo.movies[4] = true
	repo.saved[4] = ptr(6.0)

	avg, err := NewRatingService(repo, &fakeTransactor{}).Recompute(context.Background(), 4)
	require.NoError(t, err)

	assert.Nil(t, avg)
	v, ok := repo.saved[4]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestRecomputeMissingMovieIsNoop(t *testing.T) {
	repo := newFakeRatingRepository()

	avg, err := NewRatingService(repo, &fakeTransactor{}).Recompute(context.Background(), 99)
	require.NoError(t, err)

	assert.Nil(t, avg)
	assert.Empty(t, repo.saved)
}

func TestRecomputePropagatesStoreErrors(t *testing.T) {
	repo := newFakeRatingRepository()
	repo.movies[1] = true
	repo.ratings[1] = []int{5}
	repo.saveErr = errors.New("connection reset")

	_, err := NewRatingService(repo, &fakeTransactor{}).Recompute(context.Background(), 1)
	assert.ErrorContains(t, err, "connection reset")
}

func ptr(v float64) *float64 { return &v }
