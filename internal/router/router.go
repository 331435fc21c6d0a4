package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plateful/backend/internal/api"
	"github.com/plateful/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	catalogHandler *api.CatalogHandler,
	userHandler *api.UserHandler,
	validator middleware.TokenValidator,
	writeLimiter *middleware.RateLimiter,
	allowedOrigins []string,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.AuthMiddleware(validator)
	optionalAuth := middleware.OptionalAuth(validator)
	var writeLimit gin.HandlerFunc
	if writeLimiter != nil {
		writeLimit = writeLimiter.Middleware()
	}

	apiGroup := router.Group("/api")
	authHandler.RegisterRoutes(apiGroup)
	catalogHandler.RegisterRoutes(apiGroup)
	recipeHandler.RegisterRoutes(apiGroup, auth, optionalAuth, writeLimit)
	userHandler.RegisterRoutes(apiGroup, auth, optionalAuth)

	return router
}
