package handler

import (
	"anoa.com/moviecatalog/internal/middleware"
	"anoa.com/moviecatalog/internal/modules/user/dto"
	user "anoa.com/moviecatalog/internal/modules/user/service"
	"anoa.com/moviecatalog/pkg/request"
	"anoa.com/moviecatalog/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service user.AuthService
}

func NewAuthHandler(service user.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Created(c, "User registered successfully", res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := request.BindJSON(c, &req); err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Login successful", res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	tokenID, _ := middleware.CurrentTokenID(c)
	if err := h.service.Logout(c.Request.Context(), tokenID); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "Logout successful", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.service.Me(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.OK(c, "User retrieved successfully", u)
}
