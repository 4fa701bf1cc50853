package handler

import (
	"fmt"
	"strings"

	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/internal/modules/relation/dto"
	relation "anoa.com/moviecatalog/internal/modules/relation/service"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/request"
	"anoa.com/moviecatalog/pkg/response"
	"github.com/gin-gonic/gin"
)

// RelationHandler serves /movies/:id/<key> for one relation.
type RelationHandler[T any] struct {
	service    relation.RelationService[T]
	key        string
	newRequest func() dto.IDsRequest
}

func NewRelationHandler[T any](service relation.RelationService[T], key string, newRequest func() dto.IDsRequest) *RelationHandler[T] {
	return &RelationHandler[T]{service: service, key: key, newRequest: newRequest}
}

func NewGenreHandler(service relation.RelationService[entity.Genre]) *RelationHandler[entity.Genre] {
	return NewRelationHandler(service, "genres", func() dto.IDsRequest { return &dto.GenreIDsRequest{} })
}

func NewActorHandler(service relation.RelationService[entity.Actor]) *RelationHandler[entity.Actor] {
	return NewRelationHandler(service, "actors", func() dto.IDsRequest { return &dto.ActorIDsRequest{} })
}

func (h *RelationHandler[T]) List(c *gin.Context) {
	movieID, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("Movie"))
		return
	}

	list, err := h.service.List(c.Request.Context(), movieID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("Movie %s retrieved successfully", h.key), list)
}

func (h *RelationHandler[T]) Attach(c *gin.Context) {
	h.sync(c, relation.OpAttach, capitalize(h.key)+" attached to movie successfully")
}

func (h *RelationHandler[T]) Replace(c *gin.Context) {
	h.sync(c, relation.OpReplace, "Movie "+h.key+" synced successfully")
}

func (h *RelationHandler[T]) Detach(c *gin.Context) {
	h.sync(c, relation.OpDetach, capitalize(h.key)+" detached from movie successfully")
}

func (h *RelationHandler[T]) sync(c *gin.Context, op relation.Op, message string) {
	req := h.newRequest()
	if err := request.BindJSON(c, req); err != nil {
		response.ResponseError(c, err)
		return
	}

	movieID, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("Movie"))
		return
	}

	result, err := h.service.Sync(c.Request.Context(), op, movieID, req.RelationIDs())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, message, result)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
