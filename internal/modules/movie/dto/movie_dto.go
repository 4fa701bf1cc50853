package dto

import (
	"strings"

	"anoa.com/moviecatalog/internal/entity"
)

type CreateMovieRequest struct {
	Title          string  `json:"movie_title" binding:"required,max=150"`
	Duration       int     `json:"movie_duration" binding:"required,min=1"`
	ProductionYear int     `json:"production_year" binding:"required,productionyear"`
	Poster         *string `json:"movie_poster" binding:"omitempty,max=500"`
	DescriptionEN  *string `json:"movie_description_en"`
	DescriptionID  *string `json:"movie_description_id"`
	TrailerURL     *string `json:"trailer_url" binding:"omitempty,url,max=500"`
}

// UpdateMovieRequest is a partial update; nil fields are left unchanged and
// an empty string clears an optional field.
type UpdateMovieRequest struct {
	Title          *string `json:"movie_title" binding:"omitnil,min=1,max=150"`
	Duration       *int    `json:"movie_duration" binding:"omitnil,min=1"`
	ProductionYear *int    `json:"production_year" binding:"omitnil,productionyear"`
	Poster         *string `json:"movie_poster" binding:"omitempty,max=500"`
	DescriptionEN  *string `json:"movie_description_en"`
	DescriptionID  *string `json:"movie_description_id"`
	TrailerURL     *string `json:"trailer_url" binding:"omitempty,url,max=500"`
}

type MovieFilter struct {
	Search  string `form:"search"`
	GenreID *uint  `form:"genre_id"`
	SortBy  string `form:"sort_by"`
	Order   string `form:"order"`
}

// MovieFilters is echoed back on list responses with the effective sort.
type MovieFilters struct {
	Search  *string `json:"search"`
	GenreID *uint   `json:"genre_id"`
	SortBy  string  `json:"sort_by"`
	Order   string  `json:"order"`
}

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

var sortColumns = map[string]string{
	"id":       "movie_id",
	"title":    "movie_title",
	"rating":   "average_rating",
	"year":     "production_year",
	"duration": "movie_duration",
}

// ResolveSort maps a public sort key to its column. Unknown keys sort by id
// and any order other than desc is ascending.
func ResolveSort(sortBy, order string) (key, column, direction string) {
	key = strings.ToLower(strings.TrimSpace(sortBy))
	column, ok := sortColumns[key]
	if !ok {
		key, column = "id", sortColumns["id"]
	}

	direction = SortAsc
	if strings.EqualFold(strings.TrimSpace(order), SortDesc) {
		direction = SortDesc
	}
	return key, column, direction
}

type MovieResponse struct {
	entity.Movie
	RatingClass string `json:"rating_class"`
}

func NewMovieResponse(m *entity.Movie) MovieResponse {
	return MovieResponse{Movie: *m, RatingClass: entity.RatingClass(m.AverageRating)}
}

func NewMovieResponses(movies []entity.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, NewMovieResponse(&movies[i]))
	}
	return out
}
