package dto

import (
	"encoding/json"

	movieDto "anoa.com/moviecatalog/internal/modules/movie/dto"
)

// IDsRequest is a request body carrying the related ids.
type IDsRequest interface {
	RelationIDs() []uint
}

type GenreIDsRequest struct {
	GenreIDs []uint `json:"genre_ids" binding:"required,dive,gt=0"`
}

func (r *GenreIDsRequest) RelationIDs() []uint { return r.GenreIDs }

type ActorIDsRequest struct {
	ActorIDs []uint `json:"actor_ids" binding:"required,dive,gt=0"`
}

func (r *ActorIDsRequest) RelationIDs() []uint { return r.ActorIDs }

type MovieSummary struct {
	ID    uint   `json:"movie_id"`
	Title string `json:"movie_title"`
}

// RelationList renders as {"movie": {...}, "<key>": [...]}.
type RelationList[T any] struct {
	Key   string
	Movie MovieSummary
	Items []T
}

func (l RelationList[T]) MarshalJSON() ([]byte, error) {
	items := l.Items
	if items == nil {
		items = []T{}
	}
	return json.Marshal(map[string]any{
		"movie": l.Movie,
		l.Key:   items,
	})
}

// MovieWithRelation renders the movie fields plus "<key>": [...], even when
// the list is empty.
type MovieWithRelation[T any] struct {
	Key   string
	Movie movieDto.MovieResponse
	Items []T
}

func (m MovieWithRelation[T]) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(m.Movie)
	if err != nil {
		return nil, err
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}

	items := m.Items
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	fields[m.Key] = raw

	return json.Marshal(fields)
}
