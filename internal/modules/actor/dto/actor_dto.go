package dto

import "anoa.com/moviecatalog/internal/entity"

type CreateActorRequest struct {
	Name string `json:"actor_name" binding:"required,max=100"`
}

type UpdateActorRequest struct {
	Name *string `json:"actor_name" binding:"omitnil,min=1,max=100"`
}

type ActorFilter struct {
	Search string `form:"search"`
}

type ActorDetail struct {
	entity.Actor
	Movies []entity.Movie `json:"movies"`
}

func NewActorDetail(a *entity.Actor) ActorDetail {
	movies := a.Movies
	if movies == nil {
		movies = []entity.Movie{}
	}
	return ActorDetail{Actor: *a, Movies: movies}
}
