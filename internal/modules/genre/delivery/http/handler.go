package handler

import (
	"anoa.com/moviecatalog/internal/modules/genre/dto"
	genre "anoa.com/moviecatalog/internal/modules/genre/service"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/pagination"
	"anoa.com/moviecatalog/pkg/request"
	"anoa.com/moviecatalog/pkg/response"
	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	service genre.GenreService
}

func NewGenreHandler(service genre.GenreService) *GenreHandler {
	return &GenreHandler{service: service}
}

func (h *GenreHandler) GetGenres(c *gin.Context) {
	var filter dto.GenreFilter
	if err := request.BindQuery(c, &filter); err != nil {
		response.ResponseError(c, err)
		return
	}

	genres, meta, err := h.service.List(c.Request.Context(), filter, pagination.FromQuery(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Paginated(c, "Genres retrieved successfully", genres, meta, nil)
}

func (h *GenreHandler) GetGenre(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("Genre"))
		return
	}

	g, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Genre retrieved successfully", g)
}

func (h *GenreHandler) CreateGenre(c *gin.Context) {
	var req dto.CreateGenreRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	g, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, "Genre created successfully", g)
}

func (h *GenreHandler) UpdateGenre(c *gin.Context) {
	var req dto.UpdateGenreRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("Genre"))
		return
	}

	g, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Genre updated successfully", g)
}

func (h *GenreHandler) DeleteGenre(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("Genre"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Genre deleted successfully", nil)
}
