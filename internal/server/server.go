package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plateful/backend/config"
	"github.com/plateful/backend/internal/api"
	"github.com/plateful/backend/internal/database"
	"github.com/plateful/backend/internal/middleware"
	"github.com/plateful/backend/internal/router"
	"github.com/plateful/backend/internal/service"
)

// Server wires the database, services and HTTP layer together.
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// New builds a fully wired server from configuration.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	var writeLimiter *middleware.RateLimiter
	if redisClient != nil {
		writeLimiter = middleware.NewRecipeWriteRateLimiter(redisClient)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	relationService := service.NewRelationService(db)
	shoppingListService := service.NewShoppingListService(db)
	subscriptionService := service.NewSubscriptionService(db)
	catalogService := service.NewCatalogService(db)

	var imageService *service.ImageService
	if cfg.AWSRegion != "" {
		s3Config, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			log.Printf("image storage disabled: %v", err)
		} else {
			imageService = service.NewImageService(s3Config)
		}
	}

	authHandler := api.NewAuthHandler(authService)
	recipeHandler := api.NewRecipeHandler(recipeService, relationService, shoppingListService, imageService, cfg.PageSize)
	catalogHandler := api.NewCatalogHandler(catalogService)
	userHandler := api.NewUserHandler(subscriptionService, authHandler, cfg.PageSize)

	allowedOrigins := []string{}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		allowedOrigins = append(allowedOrigins, origins)
	}

	r := router.SetupRouter(
		authHandler,
		recipeHandler,
		catalogHandler,
		userHandler,
		authService,
		writeLimiter,
		allowedOrigins,
	)

	return &Server{
		cfg:    cfg,
		router: r,
		db:     db,
	}, nil
}

// Start runs the HTTP server until it fails or is shut down.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", s.cfg.ServerHost, s.cfg.ServerPort),
		Handler: s.router,
	}

	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
