package bootstrap

import (
	"strings"

	"anoa.com/moviecatalog/internal/entity"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// Join tables first so the many2many associations reuse them.
	if err := db.SetupJoinTable(&entity.Movie{}, "Genres", &entity.MovieGenre{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&entity.Movie{}, "Actors", &entity.MovieActor{}); err != nil {
		return err
	}

	return db.AutoMigrate(
		&entity.User{},
		&entity.AccessToken{},
		&entity.Movie{},
		&entity.Genre{},
		&entity.Actor{},
		&entity.MovieGenre{},
		&entity.MovieActor{},
		&entity.Review{},
		&entity.WatchHistory{},
	)
}

// SeedAdminUser creates the first admin account. It does nothing when the
// email is already registered or no password is configured.
func SeedAdminUser(db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		log.Warn("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).
		Where("LOWER(user_email) = ?", email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.WithField("email", email).Info("admin user already exists, skipping seed")
		return nil
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := entity.User{
		Nickname:     "admin",
		Email:        email,
		PasswordHash: string(hashedPasswordBytes),
		Role:         entity.RoleAdmin,
		Plan:         entity.PlanPremium,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"email":   email,
		"user_id": adminUser.ID,
	}).Info("admin user seeded")

	return nil
}
