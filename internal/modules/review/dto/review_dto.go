package dto

type CreateReviewRequest struct {
	// UserID defaults to the caller when omitted.
	UserID  *uint `json:"user_id" binding:"omitnil,gt=0"`
	MovieID uint  `json:"movie_id" binding:"required,gt=0"`
	Rating  int   `json:"rating" binding:"required,min=1,max=10"`
}

// UpdateReviewRequest carries the only mutable field of a review.
type UpdateReviewRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=10"`
}

type ReviewFilter struct {
	MovieID *uint `form:"movie_id" binding:"omitnil,gt=0"`
	UserID  *uint `form:"user_id" binding:"omitnil,gt=0"`
}
