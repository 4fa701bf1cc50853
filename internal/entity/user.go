package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	PlanMobile   = "mobile"
	PlanBasic    = "basic"
	PlanStandard = "standard"
	PlanPremium  = "premium"
)

type User struct {
	ID           uint           `gorm:"column:user_id;primaryKey" json:"user_id"`
	Nickname     string         `gorm:"column:user_nickname;size:50;not null;index" json:"user_nickname"`
	Email        string         `gorm:"column:user_email;size:100;uniqueIndex;not null" json:"user_email"`
	PasswordHash string         `gorm:"column:password;size:255;not null" json:"-"`
	Role         string         `gorm:"size:10;not null;default:user" json:"role"`
	Plan         string         `gorm:"size:10;not null;default:basic" json:"plan"`
	Reviews      []Review       `gorm:"foreignKey:UserID" json:"reviews,omitempty"`
	WatchHistory []WatchHistory `gorm:"foreignKey:UserID" json:"watch_history,omitempty"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AccessToken is a live bearer credential. The row id is the JWT jti.
type AccessToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"`
}

func (AccessToken) TableName() string { return "access_tokens" }

func (t *AccessToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
