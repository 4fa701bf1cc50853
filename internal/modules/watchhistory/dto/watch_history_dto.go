package dto

type CreateWatchHistoryRequest struct {
	// UserID defaults to the caller when omitted.
	UserID  *uint `json:"user_id" binding:"omitnil,gt=0"`
	MovieID uint  `json:"movie_id" binding:"required,gt=0"`
}

// UpdateWatchHistoryRequest may only move the entry to another movie.
type UpdateWatchHistoryRequest struct {
	MovieID *uint `json:"movie_id" binding:"omitnil,gt=0"`
}

type WatchHistoryFilter struct {
	// UserID lets admins read another user's history.
	UserID *uint `form:"user_id" binding:"omitnil,gt=0"`
}
