package handler

import (
	"anoa.com/moviecatalog/internal/modules/movie/dto"
	movie "anoa.com/moviecatalog/internal/modules/movie/service"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/pagination"
	"anoa.com/moviecatalog/pkg/request"
	"anoa.com/moviecatalog/pkg/response"
	"github.com/gin-gonic/gin"
)

type MovieHandler struct {
	service movie.MovieService
}

func NewMovieHandler(service movie.MovieService) *MovieHandler {
	return &MovieHandler{service: service}
}

func (h *MovieHandler) GetMovies(c *gin.Context) {
	var filter dto.MovieFilter
	if err := request.BindQuery(c, &filter); err != nil {
		response.ResponseError(c, err)
		return
	}

	movies, meta, filters, err := h.service.List(c.Request.Context(), filter, pagination.FromQuery(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Paginated(c, "Movies retrieved successfully", movies, meta, filters)
}

func (h *MovieHandler) GetMovie(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("Movie"))
		return
	}

	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Movie retrieved successfully", m)
}

func (h *MovieHandler) CreateMovie(c *gin.Context) {
	var req dto.CreateMovieRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	m, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, "Movie created successfully", m)
}

func (h *MovieHandler) UpdateMovie(c *gin.Context) {
	var req dto.UpdateMovieRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("Movie"))
		return
	}

	m, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Movie updated successfully", m)
}

func (h *MovieHandler) DeleteMovie(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("Movie"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Movie deleted successfully", nil)
}
