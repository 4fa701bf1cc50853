package handler

import (
	"anoa.com/moviecatalog/internal/middleware"
	"anoa.com/moviecatalog/internal/modules/review/dto"
	review "anoa.com/moviecatalog/internal/modules/review/service"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/pagination"
	"anoa.com/moviecatalog/pkg/request"
	"anoa.com/moviecatalog/pkg/response"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	service review.ReviewService
}

func NewReviewHandler(service review.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) GetReviews(c *gin.Context) {
	var filter dto.ReviewFilter
	if err := request.BindQuery(c, &filter); err != nil {
		response.ResponseError(c, err)
		return
	}

	reviews, meta, err := h.service.List(c.Request.Context(), middleware.CurrentActor(c), filter, pagination.FromQuery(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Paginated(c, "Reviews retrieved successfully", reviews, meta, nil)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("Review"))
		return
	}

	r, err := h.service.Get(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Review retrieved successfully", r)
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	r, err := h.service.Create(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, "Review created successfully", r)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	var req dto.UpdateReviewRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("Review"))
		return
	}

	r, err := h.service.Update(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Review updated successfully", r)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("Review"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Review deleted successfully", nil)
}
