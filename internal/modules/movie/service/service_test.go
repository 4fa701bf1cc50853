package service

import (
	"context"
	"testing"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/internal/modules/movie/dto"
	"anoa.com/moviecatalog/internal/modules/movie/repository"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMovieRepository struct {
	movies    map[uint]*entity.Movie
	lastQuery repository.ListQuery
	updated   map[string]any
	deleted   []uint
	// afterFind runs once the row has been copied out, like a writer
	// committing between the read and the caller's next step.
	afterFind func(id uint)
}

func newFakeMovieRepository(movies ...*entity.Movie) *fakeMovieRepository {
	f := &fakeMovieRepository{movies: map[uint]*entity.Movie{}}
	for _, m := range movies {
		f.movies[m.ID] = m
	}
	return f
}

func (f *fakeMovieRepository) List(_ context.Context, q repository.ListQuery) ([]entity.Movie, int64, error) {
	f.lastQuery = q
	var out []entity.Movie
	for _, m := range f.movies {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (f *fakeMovieRepository) FindByID(_ context.Context, id uint) (*entity.Movie, error) {
	m, ok := f.movies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	if f.afterFind != nil {
		f.afterFind(id)
	}
	return &cp, nil
}

func (f *fakeMovieRepository) Create(_ context.Context, movie *entity.Movie) error {
	movie.ID = uint(len(f.movies) + 1)
	f.movies[movie.ID] = movie
	return nil
}

func (f *fakeMovieRepository) Update(_ context.Context, id uint, fields map[string]any) error {
	f.updated = fields
	if title, ok := fields["movie_title"].(string); ok {
		f.movies[id].Title = title
	}
	return nil
}

func (f *fakeMovieRepository) Lock(ctx context.Context, id uint) (*entity.Movie, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeMovieRepository) DeleteCascade(_ context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	delete(f.movies, id)
	return nil
}

type fakeCache struct {
	entries     map[uint]*entity.Movie
	versions    map[uint]int64
	invalidated []uint
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[uint]*entity.Movie{}, versions: map[uint]int64{}}
}

func (f *fakeCache) Get(_ context.Context, id uint) (*entity.Movie, int64, bool) {
	m, ok := f.entries[id]
	return m, f.versions[id], ok
}

func (f *fakeCache) Set(_ context.Context, movie *entity.Movie, version int64) {
	if f.versions[movie.ID] != version {
		return
	}
	f.entries[movie.ID] = movie
}

func (f *fakeCache) Invalidate(_ context.Context, ids ...uint) {
	f.invalidated = append(f.invalidated, ids...)
	for _, id := range ids {
		f.versions[id]++
		delete(f.entries, id)
	}
}

func TestListResolvesSortAndEchoesFilters(t *testing.T) {
	repo := newFakeMovieRepository(&entity.Movie{ID: 1, Title: "Alien"})
	svc := NewMovieService(repo, newFakeCache(), fakeTransactor{})
	genreID := uint(4)

	movies, meta, filters, err := svc.List(context.Background(), dto.MovieFilter{
		Search:  "ali",
		GenreID: &genreID,
		SortBy:  "rating",
		Order:   "DESC",
	}, pagination.New(1, 10))
	require.NoError(t, err)

	assert.Len(t, movies, 1)
	assert.Equal(t, entity.RatingClassNone, movies[0].RatingClass)
	assert.Equal(t, int64(1), meta.TotalItems)
	assert.Equal(t, "average_rating", repo.lastQuery.SortColumn)
	assert.True(t, repo.lastQuery.Desc)
	assert.Equal(t, "ali", repo.lastQuery.Search)

	require.NotNil(t, filters.Search)
	assert.Equal(t, "ali", *filters.Search)
	assert.Equal(t, &genreID, filters.GenreID)
	assert.Equal(t, "rating", filters.SortBy)
	assert.Equal(t, "desc", filters.Order)
}

func TestGetUsesCache(t *testing.T) {
	repo := newFakeMovieRepository(&entity.Movie{ID: 2, Title: "Heat"})
	c := newFakeCache()
	svc := NewMovieService(repo, c, fakeTransactor{})

	got, err := svc.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Heat", got.Title)
	assert.Contains(t, c.entries, uint(2))

	c.entries[2] = &entity.Movie{ID: 2, Title: "Heat (cached)"}
	got, err = svc.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Heat (cached)", got.Title)
}

func TestGetSkipsCachingRowChangedDuringLoad(t *testing.T) {
	before := 8.0
	repo := newFakeMovieRepository(&entity.Movie{ID: 5, Title: "Heat", AverageRating: &before})
	c := newFakeCache()
	svc := NewMovieService(repo, c, fakeTransactor{})
	ctx := context.Background()

	repo.afterFind = func(id uint) {
		after := 9.0
		repo.movies[id].AverageRating = &after
		c.Invalidate(ctx, id)
		repo.afterFind = nil
	}

	_, err := svc.Get(ctx, 5)
	require.NoError(t, err)
	assert.NotContains(t, c.entries, uint(5))

	got, err := svc.Get(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, got.AverageRating)
	assert.Equal(t, 9.0, *got.AverageRating)

	require.Contains(t, c.entries, uint(5))
	assert.Equal(t, 9.0, *c.entries[5].AverageRating)
}

func TestGetMissingMovie(t *testing.T) {
	svc := NewMovieService(newFakeMovieRepository(), newFakeCache(), fakeTransactor{})

	_, err := svc.Get(context.Background(), 9)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.EqualError(t, err, "Movie not found")
}

func TestCreateSanitizesText(t *testing.T) {
	repo := newFakeMovieRepository()
	svc := NewMovieService(repo, newFakeCache(), fakeTransactor{})
	desc := "<script>x</script>A heist"
	blank := "   "

	got, err := svc.Create(context.Background(), dto.CreateMovieRequest{
		Title:          " <b>Heat</b> ",
		Duration:       170,
		ProductionYear: 1995,
		DescriptionEN:  &desc,
		Poster:         &blank,
	})
	require.NoError(t, err)

	assert.Equal(t, "Heat", got.Title)
	require.NotNil(t, got.DescriptionEN)
	assert.Equal(t, "A heist", *got.DescriptionEN)
	assert.Nil(t, got.Poster)
}

func TestCreateRejectsMarkupOnlyTitle(t *testing.T) {
	svc := NewMovieService(newFakeMovieRepository(), newFakeCache(), fakeTransactor{})

	_, err := svc.Create(context.Background(), dto.CreateMovieRequest{Title: "<br>", Duration: 1, ProductionYear: 2000})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUpdateIsPartialAndInvalidatesCache(t *testing.T) {
	repo := newFakeMovieRepository(&entity.Movie{ID: 3, Title: "Old", Duration: 90})
	c := newFakeCache()
	c.entries[3] = &entity.Movie{ID: 3, Title: "Old"}
	svc := NewMovieService(repo, c, fakeTransactor{})
	title := "New"
	empty := ""

	got, err := svc.Update(context.Background(), 3, dto.UpdateMovieRequest{Title: &title, TrailerURL: &empty})
	require.NoError(t, err)

	assert.Equal(t, "New", got.Title)
	assert.Equal(t, 90, got.Duration)
	assert.Contains(t, repo.updated, "trailer_url")
	assert.Nil(t, repo.updated["trailer_url"])
	assert.NotContains(t, repo.updated, "movie_duration")
	assert.Equal(t, []uint{3}, c.invalidated)
}

func TestUpdateMissingMovie(t *testing.T) {
	repo := newFakeMovieRepository()
	svc := NewMovieService(repo, newFakeCache(), fakeTransactor{})
	title := "New"

	_, err := svc.Update(context.Background(), 5, dto.UpdateMovieRequest{Title: &title})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Nil(t, repo.updated)
}

func TestDeleteCascades(t *testing.T) {
	repo := newFakeMovieRepository(&entity.Movie{ID: 6})
	c := newFakeCache()
	svc := NewMovieService(repo, c, fakeTransactor{})

	require.NoError(t, svc.Delete(context.Background(), 6))
	assert.Equal(t, []uint{6}, repo.deleted)
	assert.Equal(t, []uint{6}, c.invalidated)

	err := svc.Delete(context.Background(), 6)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
