package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plateful/backend/internal/middleware"
	"github.com/plateful/backend/internal/service"
)

// UserHandler serves public profiles and subscription management.
type UserHandler struct {
	subscriptions *service.SubscriptionService
	authHandler   *AuthHandler
	pageSize      int
}

func NewUserHandler(subscriptions *service.SubscriptionService, authHandler *AuthHandler, pageSize int) *UserHandler {
	return &UserHandler{
		subscriptions: subscriptions,
		authHandler:   authHandler,
		pageSize:      pageSize,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, auth, optionalAuth gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.GET("/me", auth, h.authHandler.Me)
		users.GET("/subscriptions", auth, h.ListSubscriptions)
		users.GET("/:id", optionalAuth, h.GetProfile)
		users.POST("/:id/subscribe", auth, h.Subscribe)
		users.DELETE("/:id/subscribe", auth, h.Unsubscribe)
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	profile, err := h.subscriptions.Profile(c.Request.Context(), id, viewerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	item, err := h.subscriptions.Follow(c.Request.Context(), userID, authorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.subscriptions.Unfollow(c.Request.Context(), userID, authorID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListSubscriptions returns followed authors with recipe previews capped by
// ?recipes_limit=.
func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipesLimit := 0
	if n, err := strconv.Atoi(c.Query("recipes_limit")); err == nil && n > 0 {
		recipesLimit = n
	}
	limit := h.pageSize
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		limit = n
	}
	page := 1
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		page = n
	}

	items, total, err := h.subscriptions.List(c.Request.Context(), userID, recipesLimit, limit, page)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Count: total, Results: items})
}
