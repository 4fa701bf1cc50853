package service

import (
	"context"
	"testing"
	"time"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/internal/modules/policy"
	"anoa.com/moviecatalog/internal/modules/watchhistory/dto"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type txKey struct{}

// fakeTransactor marks the context so the repository can tell which calls
// ran inside a transaction.
type fakeTransactor struct {
	commits int
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		return err
	}
	f.commits++
	return nil
}

type fakeWatchHistoryRepository struct {
	movies  map[uint]bool
	users   map[uint]bool
	entries map[uint]*entity.WatchHistory
	listed  []uint
	nextID  uint
	// calls records each write-path call and whether it ran in a transaction.
	calls map[string]bool
}

func newFakeRepository() *fakeWatchHistoryRepository {
	return &fakeWatchHistoryRepository{
		movies:  map[uint]bool{5: true, 6: true},
		users:   map[uint]bool{1: true, 2: true},
		entries: map[uint]*entity.WatchHistory{},
		nextID:  1,
		calls:   map[string]bool{},
	}
}

func (f *fakeWatchHistoryRepository) record(ctx context.Context, name string) {
	inTx, _ := ctx.Value(txKey{}).(bool)
	f.calls[name] = inTx
}

func (f *fakeWatchHistoryRepository) ListByUser(_ context.Context, userID uint, _ pagination.Params) ([]entity.WatchHistory, int64, error) {
	f.listed = append(f.listed, userID)
	var out []entity.WatchHistory
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeWatchHistoryRepository) FindByID(_ context.Context, id uint) (*entity.WatchHistory, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeWatchHistoryRepository) LockMovie(ctx context.Context, movieID uint) (bool, error) {
	f.record(ctx, "LockMovie")
	return f.movies[movieID], nil
}

func (f *fakeWatchHistoryRepository) LockUser(ctx context.Context, userID uint) (bool, error) {
	f.record(ctx, "LockUser")
	return f.users[userID], nil
}

func (f *fakeWatchHistoryRepository) Create(ctx context.Context, entry *entity.WatchHistory) error {
	f.record(ctx, "Create")
	entry.ID = f.nextID
	f.nextID++
	cp := *entry
	f.entries[entry.ID] = &cp
	return nil
}

func (f *fakeWatchHistoryRepository) UpdateMovie(ctx context.Context, id, movieID uint) error {
	f.record(ctx, "UpdateMovie")
	f.entries[id].MovieID = movieID
	return nil
}

func (f *fakeWatchHistoryRepository) Delete(_ context.Context, id uint) error {
	delete(f.entries, id)
	return nil
}

var (
	alice = &policy.Actor{ID: 1, Role: entity.RoleUser}
	bob   = &policy.Actor{ID: 2, Role: entity.RoleUser}
	admin = &policy.Actor{ID: 3, Role: entity.RoleAdmin}
)

func setupService(t *testing.T) (*fakeWatchHistoryRepository, WatchHistoryService) {
	t.Helper()
	p, err := policy.New("")
	require.NoError(t, err)

	repo := newFakeRepository()
	return repo, NewWatchHistoryService(repo, p, &fakeTransactor{})
}

func TestCreateWatchHistory(t *testing.T) {
	_, svc := setupService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, alice, dto.CreateWatchHistoryRequest{MovieID: 5})
	require.NoError(t, err)
	assert.Equal(t, uint(1), entry.UserID)
	assert.Equal(t, entity.Today(), entry.WatchDate)
	assert.Equal(t, time.UTC, entry.WatchDate.Location())

	other := uint(2)
	_, err = svc.Create(ctx, alice, dto.CreateWatchHistoryRequest{UserID: &other, MovieID: 5})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.EqualError(t, err, "Forbidden. You can only create your own watch history.")

	_, err = svc.Create(ctx, alice, dto.CreateWatchHistoryRequest{MovieID: 404})
	assert.EqualError(t, err, "Movie not found")
}

func TestCreateChecksAndInsertShareTransaction(t *testing.T) {
	p, err := policy.New("")
	require.NoError(t, err)
	repo := newFakeRepository()
	tx := &fakeTransactor{}
	svc := NewWatchHistoryService(repo, p, tx)
	ctx := context.Background()

	_, err = svc.Create(ctx, alice, dto.CreateWatchHistoryRequest{MovieID: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, tx.commits)
	assert.Equal(t, map[string]bool{"LockMovie": true, "LockUser": true, "Create": true}, repo.calls)

	// A movie removed before the lock is taken leaves nothing behind.
	delete(repo.movies, 6)
	repo.calls = map[string]bool{}
	_, err = svc.Create(ctx, alice, dto.CreateWatchHistoryRequest{MovieID: 6})
	assert.EqualError(t, err, "Movie not found")
	assert.Equal(t, 1, tx.commits)
	assert.NotContains(t, repo.calls, "Create")
	assert.Len(t, repo.entries, 1)
}

func TestUpdateMovieRunsInTransaction(t *testing.T) {
	p, err := policy.New("")
	require.NoError(t, err)
	repo := newFakeRepository()
	tx := &fakeTransactor{}
	svc := NewWatchHistoryService(repo, p, tx)
	ctx := context.Background()

	entry, err := svc.Create(ctx, alice, dto.CreateWatchHistoryRequest{MovieID: 5})
	require.NoError(t, err)

	movieID := uint(6)
	updated, err := svc.Update(ctx, alice, entry.ID, dto.UpdateWatchHistoryRequest{MovieID: &movieID})
	require.NoError(t, err)
	assert.Equal(t, uint(6), updated.MovieID)
	assert.Equal(t, 2, tx.commits)
	assert.True(t, repo.calls["UpdateMovie"])
}

func TestWatchHistoryOwnership(t *testing.T) {
	_, svc := setupService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, alice, dto.CreateWatchHistoryRequest{MovieID: 5})
	require.NoError(t, err)

	_, err = svc.Get(ctx, bob, entry.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.Get(ctx, bob, 999)
	assert.EqualError(t, err, "Watch history not found")

	got, err := svc.Get(ctx, admin, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)

	err = svc.Delete(ctx, bob, entry.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.NoError(t, svc.Delete(ctx, alice, entry.ID))
}

func TestUpdateWatchHistoryMovie(t *testing.T) {
	repo, svc := setupService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, alice, dto.CreateWatchHistoryRequest{MovieID: 5})
	require.NoError(t, err)

	movie := uint(6)
	updated, err := svc.Update(ctx, alice, entry.ID, dto.UpdateWatchHistoryRequest{MovieID: &movie})
	require.NoError(t, err)
	assert.Equal(t, uint(6), updated.MovieID)
	assert.Equal(t, uint(1), repo.entries[entry.ID].UserID)

	missing := uint(404)
	_, err = svc.Update(ctx, alice, entry.ID, dto.UpdateWatchHistoryRequest{MovieID: &missing})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListWatchHistoryScope(t *testing.T) {
	repo, svc := setupService(t)
	ctx := context.Background()

	entries, _, err := svc.List(ctx, alice, dto.WatchHistoryFilter{}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.NotNil(t, entries)

	other := uint(2)
	_, _, err = svc.List(ctx, alice, dto.WatchHistoryFilter{UserID: &other}, pagination.New(1, 10))
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, _, err = svc.List(ctx, admin, dto.WatchHistoryFilter{UserID: &other}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, repo.listed)

	_, _, err = svc.List(ctx, nil, dto.WatchHistoryFilter{}, pagination.New(1, 10))
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
