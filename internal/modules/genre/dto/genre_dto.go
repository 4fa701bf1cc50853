package dto

import "anoa.com/moviecatalog/internal/entity"

type CreateGenreRequest struct {
	Name string `json:"genre_name" binding:"required,max=50"`
}

type UpdateGenreRequest struct {
	Name *string `json:"genre_name" binding:"omitnil,min=1,max=50"`
}

type GenreFilter struct {
	Search string `form:"search"`
}

// GenreDetail is a genre with its movies; movies is always present.
type GenreDetail struct {
	entity.Genre
	Movies []entity.Movie `json:"movies"`
}

func NewGenreDetail(g *entity.Genre) GenreDetail {
	movies := g.Movies
	if movies == nil {
		movies = []entity.Movie{}
	}
	return GenreDetail{Genre: *g, Movies: movies}
}
