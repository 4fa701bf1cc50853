package entity

import "time"

type Review struct {
	ID         uint      `gorm:"column:review_id;primaryKey" json:"review_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_reviews_user_movie" json:"user_id"`
	MovieID    uint      `gorm:"not null;uniqueIndex:idx_reviews_user_movie;index" json:"movie_id"`
	Rating     int       `gorm:"type:smallint;not null;check:chk_reviews_rating,rating BETWEEN 1 AND 10" json:"rating"`
	ReviewDate time.Time `gorm:"type:date;not null" json:"review_date"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Movie      *Movie    `gorm:"constraint:OnDelete:CASCADE" json:"movie,omitempty"`
}

func (Review) TableName() string { return "reviews" }

type WatchHistory struct {
	ID        uint      `gorm:"column:watch_history_id;primaryKey" json:"watch_history_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	MovieID   uint      `gorm:"not null;index" json:"movie_id"`
	WatchDate time.Time `gorm:"type:date;not null;index" json:"watch_date"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Movie     *Movie    `gorm:"constraint:OnDelete:CASCADE" json:"movie,omitempty"`
}

func (WatchHistory) TableName() string { return "watch_history" }

// Today truncates now to a calendar day in UTC.
func Today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
