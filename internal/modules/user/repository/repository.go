package repository

import (
	"context"
	"sort"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/pkg/database"
	"anoa.com/moviecatalog/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	List(ctx context.Context, search string, page pagination.Params) ([]entity.User, int64, error)
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	// FindProfile loads the user with reviews and watch history, each with its movie.
	FindProfile(ctx context.Context, id uint) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, id uint, fields map[string]any) error
	// ReviewedMovieIDs lists, ascending, the movies the user has reviewed.
	ReviewedMovieIDs(ctx context.Context, userID uint) ([]uint, error)
	// LockMovies takes row locks on the movies in ascending id order.
	LockMovies(ctx context.Context, movieIDs []uint) error
	// DeleteCascade removes the user's reviews, watch history and tokens,
	// then the user.
	DeleteCascade(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) List(ctx context.Context, search string, page pagination.Params) ([]entity.User, int64, error) {
	query := database.Conn(ctx, r.db).Model(&entity.User{})
	if search != "" {
		pattern := database.Contains(search)
		query = query.Where("user_nickname ILIKE ? OR user_email ILIKE ?", pattern, pattern)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []entity.User
	err := query.
		Order("user_nickname ASC").
		Order("user_id").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	if err := database.Conn(ctx, r.db).Where("user_id = ?", id).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindProfile(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	err := database.Conn(ctx, r.db).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("review_id") }).
		Preload("Reviews.Movie").
		Preload("WatchHistory", func(db *gorm.DB) *gorm.DB { return db.Order("watch_date DESC, watch_history_id DESC") }).
		Preload("WatchHistory.Movie").
		Where("user_id = ?", id).
		Take(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := database.Conn(ctx, r.db).Where("LOWER(user_email) = LOWER(?)", email).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).
		Model(&entity.User{}).
		Where("LOWER(user_email) = LOWER(?) AND user_id <> ?", email, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).
		Model(&entity.User{}).
		Where("user_id = ?", id).
		Updates(fields).Error
}

func (r *userRepository) ReviewedMovieIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := database.Conn(ctx, r.db).
		Model(&entity.Review{}).
		Where("user_id = ?", userID).
		Distinct().
		Order("movie_id").
		Pluck("movie_id", &ids).Error
	return ids, err
}

func (r *userRepository) LockMovies(ctx context.Context, movieIDs []uint) error {
	if len(movieIDs) == 0 {
		return nil
	}
	ids := append([]uint(nil), movieIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var locked []entity.Movie
	return database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("movie_id").
		Where("movie_id IN ?", ids).
		Order("movie_id").
		Find(&locked).Error
}

func (r *userRepository) DeleteCascade(ctx context.Context, id uint) error {
	db := database.Conn(ctx, r.db)

	steps := []any{
		&entity.Review{},
		&entity.WatchHistory{},
		&entity.AccessToken{},
	}
	for _, model := range steps {
		if err := db.Where("user_id = ?", id).Delete(model).Error; err != nil {
			return err
		}
	}

	res := db.Where("user_id = ?", id).Delete(&entity.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
