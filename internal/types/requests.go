package types

import "github.com/google/uuid"

// IngredientAmount is one entry of a recipe write payload: which ingredient
// and how much of it.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required"`
}

// RecipeInput is the write payload for creating or updating a recipe.
// Shape checks beyond field presence live in the recipe service.
type RecipeInput struct {
	Name        string             `json:"name" binding:"required,max=200"`
	Description string             `json:"description" binding:"required"`
	Image       string             `json:"image"`
	CookingTime int                `json:"cooking_time" binding:"required"`
	Tags        []uuid.UUID        `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients"`
}

// RecipeFilter carries the declarative list filters of GET /api/recipes.
type RecipeFilter struct {
	TagSlugs       []string
	AuthorID       *uuid.UUID
	Favorited      bool
	InShoppingCart bool
	Viewer         *uuid.UUID
	Limit          int
	Page           int
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8"`
}
