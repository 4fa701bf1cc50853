package handler

import (
	"anoa.com/moviecatalog/internal/middleware"
	"anoa.com/moviecatalog/internal/modules/watchhistory/dto"
	watchhistory "anoa.com/moviecatalog/internal/modules/watchhistory/service"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/pagination"
	"anoa.com/moviecatalog/pkg/request"
	"anoa.com/moviecatalog/pkg/response"
	"github.com/gin-gonic/gin"
)

type WatchHistoryHandler struct {
	service watchhistory.WatchHistoryService
}

func NewWatchHistoryHandler(service watchhistory.WatchHistoryService) *WatchHistoryHandler {
	return &WatchHistoryHandler{service: service}
}

func (h *WatchHistoryHandler) GetWatchHistories(c *gin.Context) {
	var filter dto.WatchHistoryFilter
	if err := request.BindQuery(c, &filter); err != nil {
		response.ResponseError(c, err)
		return
	}

	entries, meta, err := h.service.List(c.Request.Context(), middleware.CurrentActor(c), filter, pagination.FromQuery(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Paginated(c, "Watch history retrieved successfully", entries, meta, nil)
}

func (h *WatchHistoryHandler) GetWatchHistory(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("Watch history"))
		return
	}

	entry, err := h.service.Get(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Watch history retrieved successfully", entry)
}

func (h *WatchHistoryHandler) CreateWatchHistory(c *gin.Context) {
	var req dto.CreateWatchHistoryRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	entry, err := h.service.Create(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, "Watch history created successfully", entry)
}

func (h *WatchHistoryHandler) UpdateWatchHistory(c *gin.Context) {
	var req dto.UpdateWatchHistoryRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("Watch history"))
		return
	}

	entry, err := h.service.Update(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Watch history updated successfully", entry)
}

func (h *WatchHistoryHandler) DeleteWatchHistory(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("Watch history"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Watch history deleted successfully", nil)
}
