package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCache struct {
	invalidated []uint
}

func (f *fakeCache) Get(context.Context, uint) (*entity.Movie, int64, bool) { return nil, 0, false }
func (f *fakeCache) Set(context.Context, *entity.Movie, int64)              {}
func (f *fakeCache) Invalidate(_ context.Context, ids ...uint) {
	f.invalidated = append(f.invalidated, ids...)
}

type fakeUserRepository struct {
	users   map[uint]*entity.User
	reviews []entity.Review
	tokens  map[uuid.UUID]uint
	locked  []uint
	updated map[string]any
	nextID  uint
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		users: map[uint]*entity.User{
			1: {ID: 1, Nickname: "alice", Email: "alice@example.com", Role: entity.RoleUser, Plan: entity.PlanBasic},
			2: {ID: 2, Nickname: "bob", Email: "bob@example.com", Role: entity.RoleUser, Plan: entity.PlanMobile},
			3: {ID: 3, Nickname: "root", Email: "root@example.com", Role: entity.RoleAdmin, Plan: entity.PlanPremium},
		},
		tokens: map[uuid.UUID]uint{},
		nextID: 4,
	}
}

func (f *fakeUserRepository) List(_ context.Context, _ string, _ pagination.Params) ([]entity.User, int64, error) {
	var out []entity.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepository) FindByID(_ context.Context, id uint) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepository) FindProfile(ctx context.Context, id uint) (*entity.User, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) EmailTaken(_ context.Context, email string, exceptID uint) (bool, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) && u.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepository) Create(_ context.Context, user *entity.User) error {
	user.ID = f.nextID
	f.nextID++
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepository) Update(_ context.Context, id uint, fields map[string]any) error {
	f.updated = fields
	u := f.users[id]
	for column, value := range fields {
		switch column {
		case "user_nickname":
			u.Nickname = value.(string)
		case "user_email":
			u.Email = value.(string)
		case "password":
			u.PasswordHash = value.(string)
		case "plan":
			u.Plan = value.(string)
		case "role":
			u.Role = value.(string)
		}
	}
	return nil
}

func (f *fakeUserRepository) ReviewedMovieIDs(_ context.Context, userID uint) ([]uint, error) {
	seen := map[uint]bool{}
	var ids []uint
	for _, r := range f.reviews {
		if r.UserID == userID && !seen[r.MovieID] {
			seen[r.MovieID] = true
			ids = append(ids, r.MovieID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeUserRepository) LockMovies(_ context.Context, movieIDs []uint) error {
	f.locked = append(f.locked, movieIDs...)
	return nil
}

func (f *fakeUserRepository) DeleteCascade(_ context.Context, id uint) error {
	kept := f.reviews[:0]
	for _, r := range f.reviews {
		if r.UserID != id {
			kept = append(kept, r)
		}
	}
	f.reviews = kept
	for tokenID, userID := range f.tokens {
		if userID == id {
			delete(f.tokens, tokenID)
		}
	}
	delete(f.users, id)
	return nil
}

// fakeRatingRepository reads ratings straight from the user fake.
type fakeRatingRepository struct {
	users    *fakeUserRepository
	averages map[uint]*float64
}

func (f *fakeRatingRepository) LockMovie(_ context.Context, movieID uint) (bool, error) {
	return true, nil
}

func (f *fakeRatingRepository) Ratings(_ context.Context, movieID uint) ([]int, error) {
	var out []int
	for _, r := range f.users.reviews {
		if r.MovieID == movieID {
			out = append(out, r.Rating)
		}
	}
	return out, nil
}

func (f *fakeRatingRepository) SaveAverage(_ context.Context, movieID uint, avg *float64) error {
	f.averages[movieID] = avg
	return nil
}

type fakeTokenRepository struct {
	rows    map[uuid.UUID]*entity.AccessToken
	users   map[uint]*entity.User
	findErr error
}

func newFakeTokenRepository(users map[uint]*entity.User) *fakeTokenRepository {
	return &fakeTokenRepository{rows: map[uuid.UUID]*entity.AccessToken{}, users: users}
}

func (f *fakeTokenRepository) Create(_ context.Context, token *entity.AccessToken) error {
	cp := *token
	f.rows[token.ID] = &cp
	return nil
}

func (f *fakeTokenRepository) FindActive(_ context.Context, id uuid.UUID, now time.Time) (*entity.AccessToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	row, ok := f.rows[id]
	if !ok || !row.ExpiresAt.After(now) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	cp.User = f.users[row.UserID]
	return &cp, nil
}

func (f *fakeTokenRepository) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeTokenRepository) DeleteExpired(_ context.Context, userID uint, now time.Time) error {
	for id, row := range f.rows {
		if row.UserID == userID && !row.ExpiresAt.After(now) {
			delete(f.rows, id)
		}
	}
	return nil
}
