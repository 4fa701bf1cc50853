package main

import (
	"context"
	"os"

	"anoa.com/moviecatalog/internal/bootstrap"
	"anoa.com/moviecatalog/internal/config"
	"anoa.com/moviecatalog/internal/modules/policy"
	"anoa.com/moviecatalog/internal/server"
	"anoa.com/moviecatalog/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	log.SetOutput(os.Stdout)
	if cfg.IsDevelopment() {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetFormatter(&log.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	if err := bootstrap.Migrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	if err := bootstrap.SeedAdminUser(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.WithError(err).Fatal("failed to seed admin user")
	}

	redisClient := connectRedis(cfg.RedisURL)

	p, err := policy.New(cfg.PolicyPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load access policy")
	}

	srv := server.NewServer(cfg, db, redisClient, p)

	log.WithField("port", cfg.Port).Info("server starting")
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server exited with error")
	}
}

// connectRedis returns nil when redis is not configured or unreachable; the
// movie cache and review limiter then run disabled.
func connectRedis(url string) *redis.Client {
	if url == "" {
		log.Info("REDIS_URL not set, cache and rate limiting disabled")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.WithError(err).Warn("invalid REDIS_URL, cache and rate limiting disabled")
		return nil
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.WithError(err).Warn("redis unreachable, cache and rate limiting disabled")
		_ = client.Close()
		return nil
	}

	log.WithField("addr", opts.Addr).Info("redis connected")
	return client
}
