package server

import (
	"net/http"
	"time"

	"anoa.com/moviecatalog/internal/config"
	"anoa.com/moviecatalog/internal/entity"
	"anoa.com/moviecatalog/internal/middleware"
	actorHttp "anoa.com/moviecatalog/internal/modules/actor/delivery/http"
	actorRepo "anoa.com/moviecatalog/internal/modules/actor/repository"
	actorService "anoa.com/moviecatalog/internal/modules/actor/service"
	genreHttp "anoa.com/moviecatalog/internal/modules/genre/delivery/http"
	genreRepo "anoa.com/moviecatalog/internal/modules/genre/repository"
	genreService "anoa.com/moviecatalog/internal/modules/genre/service"
	"anoa.com/moviecatalog/internal/modules/movie/cache"
	movieHttp "anoa.com/moviecatalog/internal/modules/movie/delivery/http"
	movieRepo "anoa.com/moviecatalog/internal/modules/movie/repository"
	movieService "anoa.com/moviecatalog/internal/modules/movie/service"
	"anoa.com/moviecatalog/internal/modules/policy"
	ratingRepo "anoa.com/moviecatalog/internal/modules/rating/repository"
	ratingService "anoa.com/moviecatalog/internal/modules/rating/service"
	relationHttp "anoa.com/moviecatalog/internal/modules/relation/delivery/http"
	relationRepo "anoa.com/moviecatalog/internal/modules/relation/repository"
	relationService "anoa.com/moviecatalog/internal/modules/relation/service"
	reviewHttp "anoa.com/moviecatalog/internal/modules/review/delivery/http"
	reviewRepo "anoa.com/moviecatalog/internal/modules/review/repository"
	reviewService "anoa.com/moviecatalog/internal/modules/review/service"
	userHttp "anoa.com/moviecatalog/internal/modules/user/delivery/http"
	userRepo "anoa.com/moviecatalog/internal/modules/user/repository"
	userService "anoa.com/moviecatalog/internal/modules/user/service"
	watchHistoryHttp "anoa.com/moviecatalog/internal/modules/watchhistory/delivery/http"
	watchHistoryRepo "anoa.com/moviecatalog/internal/modules/watchhistory/repository"
	watchHistoryService "anoa.com/moviecatalog/internal/modules/watchhistory/service"
	"anoa.com/moviecatalog/pkg/database"
	"anoa.com/moviecatalog/pkg/response"
	"anoa.com/moviecatalog/pkg/validator"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *userHttp.AuthHandler
	User         *userHttp.UserHandler
	Movie        *movieHttp.MovieHandler
	Genre        *genreHttp.GenreHandler
	Actor        *actorHttp.ActorHandler
	MovieGenres  *relationHttp.RelationHandler[entity.Genre]
	MovieActors  *relationHttp.RelationHandler[entity.Actor]
	Review       *reviewHttp.ReviewHandler
	WatchHistory *watchHistoryHttp.WatchHistoryHandler
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, p policy.Policy) *Server {
	if err := validator.Register(); err != nil {
		log.WithError(err).Fatal("failed to register validators")
	}

	tx := database.NewTransactor(db)
	movieCache := cache.NewMovieCache(redisClient, cfg.MovieCacheTTL)

	ratings := ratingService.NewRatingService(ratingRepo.NewRatingRepository(db), tx)

	users := userRepo.NewUserRepository(db)
	tokenSvc := userService.NewTokenService(userRepo.NewAccessTokenRepository(db), cfg.JWTSecret, cfg.JWTTTL)
	authSvc := userService.NewAuthService(users, tokenSvc)
	userSvc := userService.NewUserService(users, ratings, p, movieCache, tx)

	movieSvc := movieService.NewMovieService(movieRepo.NewMovieRepository(db), movieCache, tx)
	genreSvc := genreService.NewGenreService(genreRepo.NewGenreRepository(db), movieCache, tx)
	actorSvc := actorService.NewActorService(actorRepo.NewActorRepository(db), movieCache, tx)

	movieGenreSvc := relationService.NewRelationService(
		relationRepo.NewRelationRepository(db, relationRepo.Genres), relationRepo.Genres, movieCache, tx,
	)
	movieActorSvc := relationService.NewRelationService(
		relationRepo.NewRelationRepository(db, relationRepo.Actors), relationRepo.Actors, movieCache, tx,
	)

	reviewSvc := reviewService.NewReviewService(
		reviewRepo.NewReviewRepository(db), ratings, p, movieCache, tx, redisClient, cfg.RateLimitReview,
	)
	watchHistorySvc := watchHistoryService.NewWatchHistoryService(watchHistoryRepo.NewWatchHistoryRepository(db), p, tx)

	handlers := Handlers{
		Auth:         userHttp.NewAuthHandler(authSvc),
		User:         userHttp.NewUserHandler(userSvc),
		Movie:        movieHttp.NewMovieHandler(movieSvc),
		Genre:        genreHttp.NewGenreHandler(genreSvc),
		Actor:        actorHttp.NewActorHandler(actorSvc),
		MovieGenres:  relationHttp.NewGenreHandler(movieGenreSvc),
		MovieActors:  relationHttp.NewActorHandler(movieActorSvc),
		Review:       reviewHttp.NewReviewHandler(reviewSvc),
		WatchHistory: watchHistoryHttp.NewWatchHistoryHandler(watchHistorySvc),
	}

	router := gin.New()
	setupCORS(router, cfg.AllowedOrigins)
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())

	Routes(router, handlers, middleware.NewAuthMiddleware(tokenSvc, p))

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

// Routes mounts the API under /api. Catalog reads are public, account and
// review routes need a token, catalog writes need the admin role.
func Routes(router *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.Envelope{Success: false, Message: "Route not found"})
	})

	api := router.Group("/api")
	api.Use(authMiddleware.Authenticate())

	// Public routes (no auth required)
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)

	api.GET("/movies", h.Movie.GetMovies)
	api.GET("/movies/:id", h.Movie.GetMovie)
	api.GET("/genres", h.Genre.GetGenres)
	api.GET("/genres/:id", h.Genre.GetGenre)
	api.GET("/actors", h.Actor.GetActors)
	api.GET("/actors/:id", h.Actor.GetActor)
	api.GET("/movies/:id/genres", h.MovieGenres.List)
	api.GET("/movies/:id/actors", h.MovieActors.List)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/logout", h.Auth.Logout)
		protected.GET("/user", h.Auth.Me)

		protected.GET("/reviews", h.Review.GetReviews)
		protected.POST("/reviews", h.Review.CreateReview)
		protected.GET("/reviews/:id", h.Review.GetReview)
		protected.PUT("/reviews/:id", h.Review.UpdateReview)
		protected.PATCH("/reviews/:id", h.Review.UpdateReview)
		protected.DELETE("/reviews/:id", h.Review.DeleteReview)

		protected.GET("/users/:id", h.User.GetUser)
		protected.PUT("/users/:id", h.User.UpdateUser)
		protected.PATCH("/users/:id", h.User.UpdateUser)
		protected.DELETE("/users/:id", h.User.DeleteUser)

		protected.GET("/watch-history", h.WatchHistory.GetWatchHistories)
		protected.POST("/watch-history", h.WatchHistory.CreateWatchHistory)
		protected.GET("/watch-history/:id", h.WatchHistory.GetWatchHistory)
		protected.PUT("/watch-history/:id", h.WatchHistory.UpdateWatchHistory)
		protected.PATCH("/watch-history/:id", h.WatchHistory.UpdateWatchHistory)
		protected.DELETE("/watch-history/:id", h.WatchHistory.DeleteWatchHistory)
	}

	// Admin routes
	admin := protected.Group("")
	{
		admin.POST("/movies", authMiddleware.Allow(policy.KindMovie, policy.ActionCreate), h.Movie.CreateMovie)
		admin.PUT("/movies/:id", authMiddleware.Allow(policy.KindMovie, policy.ActionUpdate), h.Movie.UpdateMovie)
		admin.PATCH("/movies/:id", authMiddleware.Allow(policy.KindMovie, policy.ActionUpdate), h.Movie.UpdateMovie)
		admin.DELETE("/movies/:id", authMiddleware.Allow(policy.KindMovie, policy.ActionDelete), h.Movie.DeleteMovie)

		admin.POST("/genres", authMiddleware.Allow(policy.KindGenre, policy.ActionCreate), h.Genre.CreateGenre)
		admin.PUT("/genres/:id", authMiddleware.Allow(policy.KindGenre, policy.ActionUpdate), h.Genre.UpdateGenre)
		admin.PATCH("/genres/:id", authMiddleware.Allow(policy.KindGenre, policy.ActionUpdate), h.Genre.UpdateGenre)
		admin.DELETE("/genres/:id", authMiddleware.Allow(policy.KindGenre, policy.ActionDelete), h.Genre.DeleteGenre)

		admin.POST("/actors", authMiddleware.Allow(policy.KindActor, policy.ActionCreate), h.Actor.CreateActor)
		admin.PUT("/actors/:id", authMiddleware.Allow(policy.KindActor, policy.ActionUpdate), h.Actor.UpdateActor)
		admin.PATCH("/actors/:id", authMiddleware.Allow(policy.KindActor, policy.ActionUpdate), h.Actor.UpdateActor)
		admin.DELETE("/actors/:id", authMiddleware.Allow(policy.KindActor, policy.ActionDelete), h.Actor.DeleteActor)

		relations := func(action policy.Action) gin.HandlerFunc {
			return authMiddleware.Allow(policy.KindMovieRelation, action)
		}
		admin.POST("/movies/:id/genres", relations(policy.ActionCreate), h.MovieGenres.Attach)
		admin.PUT("/movies/:id/genres", relations(policy.ActionUpdate), h.MovieGenres.Replace)
		admin.DELETE("/movies/:id/genres", relations(policy.ActionDelete), h.MovieGenres.Detach)
		admin.POST("/movies/:id/actors", relations(policy.ActionCreate), h.MovieActors.Attach)
		admin.PUT("/movies/:id/actors", relations(policy.ActionUpdate), h.MovieActors.Replace)
		admin.DELETE("/movies/:id/actors", relations(policy.ActionDelete), h.MovieActors.Detach)

		admin.GET("/users", authMiddleware.Allow(policy.KindUser, policy.ActionList), h.User.GetUsers)
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
