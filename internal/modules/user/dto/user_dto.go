package dto

type UserFilter struct {
	Search string `form:"search"`
}

// UpdateUserRequest is a partial update. Role is only honoured for admins.
type UpdateUserRequest struct {
	Nickname *string `json:"user_nickname" binding:"omitnil,min=1,max=50"`
	Email    *string `json:"user_email" binding:"omitnil,email,max=100"`
	Password *string `json:"password" binding:"omitnil,min=8,max=72"`
	Plan     *string `json:"plan" binding:"omitnil,oneof=mobile basic standard premium"`
	Role     *string `json:"role" binding:"omitnil,oneof=user admin"`
}
