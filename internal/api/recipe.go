package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plateful/backend/internal/middleware"
	"github.com/plateful/backend/internal/service"
	"github.com/plateful/backend/internal/types"
)

const maxImageUploadBytes = 5 << 20

type RecipeHandler struct {
	recipes       *service.RecipeService
	relations     *service.RelationService
	shoppingLists *service.ShoppingListService
	images        *service.ImageService
	pageSize      int
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	relations *service.RelationService,
	shoppingLists *service.ShoppingListService,
	images *service.ImageService,
	pageSize int,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		relations:     relations,
		shoppingLists: shoppingLists,
		images:        images,
		pageSize:      pageSize,
	}
}

// RegisterRoutes mounts the recipe endpoints. Reads are public with an
// optional viewer; writes require auth and, when configured, pass the
// write rate limiter.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, auth, optionalAuth gin.HandlerFunc, writeLimit gin.HandlerFunc) {
	write := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		chain := []gin.HandlerFunc{auth}
		if writeLimit != nil {
			chain = append(chain, writeLimit)
		}
		return append(chain, handlers...)
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optionalAuth, h.ListRecipes)
		recipes.GET("/download_shopping_cart", auth, h.DownloadShoppingCart)
		recipes.GET("/:id", optionalAuth, h.GetRecipe)
		recipes.POST("", write(h.CreateRecipe)...)
		recipes.PATCH("/:id", write(h.UpdateRecipe)...)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.POST("/:id/favorite", auth, h.Favorite)
		recipes.DELETE("/:id/favorite", auth, h.Unfavorite)
		recipes.POST("/:id/shopping_cart", auth, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", auth, h.RemoveFromCart)
		if h.images != nil {
			recipes.POST("/upload_image", auth, h.UploadImage)
		}
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := types.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
		Limit:    h.pageSize,
		Page:     1,
	}
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &id
	}
	if userID, ok := middleware.CurrentUserID(c); ok {
		viewer := userID
		filter.Viewer = &viewer
		filter.Favorited = c.Query("is_favorited") == "1"
		filter.InShoppingCart = c.Query("is_in_shopping_cart") == "1"
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}

	details, total, err := h.recipes.List(c.Request.Context(), &filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Count: total, Results: details})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	detail, err := h.recipes.GetDetail(c.Request.Context(), recipeID, viewerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var input types.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipeID, err := h.recipes.Create(c.Request.Context(), userID, &input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	detail, err := h.recipes.GetDetail(c.Request.Context(), recipeID, &userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, detail)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var input types.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.recipes.Update(c.Request.Context(), recipeID, userID, &input); err != nil {
		handleServiceError(c, err)
		return
	}

	detail, err := h.recipes.GetDetail(c.Request.Context(), recipeID, &userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), recipeID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart renders the aggregated shopping list as a text
// attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	items, err := h.shoppingLists.Build(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(h.shoppingLists.Render(items)))
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.addRelation(c, service.RelationFavorite)
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.removeRelation(c, service.RelationFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addRelation(c, service.RelationCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, service.RelationCart)
}

func (h *RecipeHandler) addRelation(c *gin.Context, kind service.RelationKind) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	short, err := h.relations.Add(c.Request.Context(), kind, userID, recipeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, short)
}

func (h *RecipeHandler) removeRelation(c *gin.Context, kind service.RelationKind) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.relations.Remove(c.Request.Context(), kind, userID, recipeID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadImage stores a recipe image in the object store and returns its URL.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	contentType := c.ContentType()
	switch contentType {
	case "image/png", "image/jpeg", "image/webp":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImageUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	if len(data) == 0 || len(data) > maxImageUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must be between 1 byte and 5 MiB"})
		return
	}

	url, err := h.images.UploadRecipeImage(c.Request.Context(), data, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"image": url})
}

// viewerID returns the optional authenticated viewer for public reads.
func viewerID(c *gin.Context) *uuid.UUID {
	if userID, ok := middleware.CurrentUserID(c); ok {
		return &userID
	}
	return nil
}
