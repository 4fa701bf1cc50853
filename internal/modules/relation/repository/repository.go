package repository

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Tables names the tables behind one movie relation.
type Tables[T any] struct {
	// Key is the JSON key of the related list, e.g. "genres".
	Key         string
	Noun        string
	JoinTable   string
	Column      string
	TargetTable string
	NameColumn  string
	// Association is the gorm association name on entity.Movie.
	Association string
	Items       func(m *entity.Movie) []T
}

var Genres = Tables[entity.Genre]{
	Key:         "genres",
	Noun:        "Genre",
	JoinTable:   "movie_genres",
	Column:      "genre_id",
	TargetTable: "genres",
	NameColumn:  "genre_name",
	Association: "Genres",
	Items:       func(m *entity.Movie) []entity.Genre { return m.Genres },
}

var Actors = Tables[entity.Actor]{
	Key:         "actors",
	Noun:        "Actor",
	JoinTable:   "movie_actors",
	Column:      "actor_id",
	TargetTable: "actors",
	NameColumn:  "actor_name",
	Association: "Actors",
	Items:       func(m *entity.Movie) []entity.Actor { return m.Actors },
}

type RelationRepository interface {
	// LockMovie takes a row lock on the movie and reports whether it exists.
	LockMovie(ctx context.Context, movieID uint) (bool, error)
	// MissingTargets returns the ids that have no row in the target table.
	MissingTargets(ctx context.Context, ids []uint) ([]uint, error)
	CurrentIDs(ctx context.Context, movieID uint) ([]uint, error)
	Insert(ctx context.Context, movieID uint, ids []uint) error
	Delete(ctx context.Context, movieID uint, ids []uint) error
	// LoadMovie returns the movie with only this relation preloaded.
	LoadMovie(ctx context.Context, movieID uint) (*entity.Movie, error)
}

type relationRepository[T any] struct {
	db     *gorm.DB
	tables Tables[T]
}

func NewRelationRepository[T any](db *gorm.DB, tables Tables[T]) RelationRepository {
	return &relationRepository[T]{db: db, tables: tables}
}

func (r *relationRepository[T]) LockMovie(ctx context.Context, movieID uint) (bool, error) {
	var movie entity.Movie
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("movie_id").
		Where("movie_id = ?", movieID).
		Take(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *relationRepository[T]) MissingTargets(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []uint
	err := database.Conn(ctx, r.db).
		Table(r.tables.TargetTable).
		Where(fmt.Sprintf("%s IN ?", r.tables.Column), ids).
		Pluck(r.tables.Column, &found).Error
	if err != nil {
		return nil, err
	}

	exists := make(map[uint]struct{}, len(found))
	for _, id := range found {
		exists[id] = struct{}{}
	}
	var missing []uint
	for _, id := range ids {
		if _, ok := exists[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *relationRepository[T]) CurrentIDs(ctx context.Context, movieID uint) ([]uint, error) {
	var ids []uint
	err := database.Conn(ctx, r.db).
		Table(r.tables.JoinTable).
		Where("movie_id = ?", movieID).
		Order(r.tables.Column).
		Pluck(r.tables.Column, &ids).Error
	return ids, err
}

func (r *relationRepository[T]) Insert(ctx context.Context, movieID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	rows := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, map[string]any{"movie_id": movieID, r.tables.Column: id})
	}
	return database.Conn(ctx, r.db).
		Table(r.tables.JoinTable).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *relationRepository[T]) Delete(ctx context.Context, movieID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).
		Exec(fmt.Sprintf("DELETE FROM %s WHERE movie_id = ? AND %s IN ?", r.tables.JoinTable, r.tables.Column), movieID, ids).
		Error
}

func (r *relationRepository[T]) LoadMovie(ctx context.Context, movieID uint) (*entity.Movie, error) {
	var movie entity.Movie
	err := database.Conn(ctx, r.db).
		Preload(r.tables.Association, func(db *gorm.DB) *gorm.DB {
			return db.Order(r.tables.NameColumn)
		}).
		Where("movie_id = ?", movieID).
		Take(&movie).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}
