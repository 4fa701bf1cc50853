package handler

import (
	"anoa.com/moviecatalog/internal/middleware"
	"anoa.com/moviecatalog/internal/modules/user/dto"
	user "anoa.com/moviecatalog/internal/modules/user/service"
	"anoa.com/moviecatalog/pkg/apperror"
	"anoa.com/moviecatalog/pkg/pagination"
	"anoa.com/moviecatalog/pkg/request"
	"anoa.com/moviecatalog/pkg/response"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service user.UserService
}

func NewUserHandler(service user.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	var filter dto.UserFilter
	if err := request.BindQuery(c, &filter); err != nil {
		response.ResponseError(c, err)
		return
	}

	users, meta, err := h.service.List(c.Request.Context(), middleware.CurrentActor(c), filter, pagination.FromQuery(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Paginated(c, "Users retrieved successfully", users, meta, nil)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("User"))
		return
	}

	u, err := h.service.Get(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "User retrieved successfully", u)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("User"))
		return
	}

	u, err := h.service.Update(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "User updated successfully", u)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := request.ParamID(c, "id")
	if !ok {
		response.ResponseError(c, apperror.NotFound("User"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "User deleted successfully", nil)
}
