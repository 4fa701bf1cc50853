package dto

import (
	"encoding/json"
	"testing"

	"anoa.com/moviecatalog/internal/entity"
	movieDto "anoa.com/moviecatalog/internal/modules/movie/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationListJSON(t *testing.T) {
	raw, err := json.Marshal(RelationList[entity.Actor]{
		Key:   "actors",
		Movie: MovieSummary{ID: 1, Title: "Heat"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"movie":{"movie_id":1,"movie_title":"Heat"},"actors":[]}`, string(raw))
}

func TestMovieWithRelationKeepsEmptyList(t *testing.T) {
	raw, err := json.Marshal(MovieWithRelation[entity.Genre]{
		Key:   "genres",
		Movie: movieDto.NewMovieResponse(&entity.Movie{ID: 2, Title: "Alien"}),
	})
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, []any{}, body["genres"])
	assert.Equal(t, "Alien", body["movie_title"])
	assert.Equal(t, "Not Rated", body["rating_class"])
}
