package handler

import (
	"anoa.com/moviecatalog/internal/modules/actor/dto"
	actor "anoa.com/moviecatalog/internal/modules/actor/service"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/pagination"
	"anoa.com/moviecatalog/pkg/request"
	"anoa.com/moviecatalog/pkg/response"
	"github.com/gin-gonic/gin"
)

type ActorHandler struct {
	service actor.ActorService
}

func NewActorHandler(service actor.ActorService) *ActorHandler {
	return &ActorHandler{service: service}
}

func (h *ActorHandler) GetActors(c *gin.Context) {
	var filter dto.ActorFilter
	if err := request.BindQuery(c, &filter); err != nil {
		response.ResponseError(c, err)
		return
	}

	actors, meta, err := h.service.List(c.Request.Context(), filter, pagination.FromQuery(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Paginated(c, "Actors retrieved successfully", actors, meta, nil)
}

func (h *ActorHandler) GetActor(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("Actor"))
		return
	}

	g, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Actor retrieved successfully", g)
}

func (h *ActorHandler) CreateActor(c *gin.Context) {
	var req dto.CreateActorRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	g, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, "Actor created successfully", g)
}

func (h *ActorHandler) UpdateActor(c *gin.Context) {
	var req dto.UpdateActorRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("Actor"))
		return
	}

	g, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Actor updated successfully", g)
}

func (h *ActorHandler) DeleteActor(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("Actor"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Actor deleted successfully", nil)
}
