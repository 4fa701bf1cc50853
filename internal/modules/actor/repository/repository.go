package repository

import (
	"context"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/pkg/database"
	"anoa.com/moviecatalog/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActorRepository interface {
	List(ctx context.Context, search string, page pagination.Params) ([]entity.Actor, int64, error)
	FindByID(ctx context.Context, id uint) (*entity.Actor, error)
	Create(ctx context.Context, actor *entity.Actor) error
	Rename(ctx context.Context, id uint, name string) error
	Lock(ctx context.Context, id uint) (*entity.Actor, error)
	MovieIDs(ctx context.Context, id uint) ([]uint, error)
	Delete(ctx context.Context, id uint) error
}

type actorRepository struct {
	db *gorm.DB
}

func NewActorRepository(db *gorm.DB) ActorRepository {
	return &actorRepository{db: db}
}

func (r *actorRepository) List(ctx context.Context, search string, page pagination.Params) ([]entity.Actor, int64, error) {
	query := database.Conn(ctx, r.db).Model(&entity.Actor{})
	if search != "" {
		query = query.Where("actor_name ILIKE ?", database.Contains(search))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var actors []entity.Actor
	if err := query.Order("actor_id").Offset(page.Offset()).Limit(page.Limit()).Find(&actors).Error; err != nil {
		return nil, 0, err
	}
	return actors, total, nil
}

func (r *actorRepository) FindByID(ctx context.Context, id uint) (*entity.Actor, error) {
	var actor entity.Actor
	err := database.Conn(ctx, r.db).
		Preload("Movies", func(db *gorm.DB) *gorm.DB { return db.Order("movie_title") }).
		Where("actor_id = ?", id).
		Take(&actor).Error
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

func (r *actorRepository) Create(ctx context.Context, actor *entity.Actor) error {
	return database.Conn(ctx, r.db).Omit(clause.Associations).Create(actor).Error
}

func (r *actorRepository) Rename(ctx context.Context, id uint, name string) error {
	return database.Conn(ctx, r.db).
		Model(&entity.Actor{}).
		Where("actor_id = ?", id).
		Update("actor_name", name).Error
}

func (r *actorRepository) Lock(ctx context.Context, id uint) (*entity.Actor, error) {
	var actor entity.Actor
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("actor_id = ?", id).
		Take(&actor).Error
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

func (r *actorRepository) MovieIDs(ctx context.Context, id uint) ([]uint, error) {
	var ids []uint
	err := database.Conn(ctx, r.db).
		Model(&entity.MovieActor{}).
		Where("actor_id = ?", id).
		Pluck("movie_id", &ids).Error
	return ids, err
}

func (r *actorRepository) Delete(ctx context.Context, id uint) error {
	db := database.Conn(ctx, r.db)
	if err := db.Where("actor_id = ?", id).Delete(&entity.MovieActor{}).Error; err != nil {
		return err
	}
	return db.Where("actor_id = ?", id).Delete(&entity.Actor{}).Error
}
