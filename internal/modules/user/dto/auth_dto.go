package dto

import "anoa.com/moviecatalog/internal/entity"

type RegisterRequest struct {
	Nickname             string `json:"user_nickname" binding:"required,max=50"`
	Email                string `json:"user_email" binding:"required,email,max=100"`
	Password             string `json:"password" binding:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
	Plan                 string `json:"plan" binding:"required,oneof=mobile basic standard premium"`
}

type LoginRequest struct {
	Email    string `json:"user_email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User        *entity.User `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
}
