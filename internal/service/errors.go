package service

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to handlers. Anything not listed here is treated
// as a storage error.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user with this email or username already exists")

	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotRecipeAuthor    = errors.New("only the author can modify the recipe")

	ErrAlreadyFavorited = errors.New("recipe is already in favorites")
	ErrNotFavorited     = errors.New("recipe is already removed from favorites")
	ErrAlreadyInCart    = errors.New("recipe is already in the shopping cart")
	ErrNotInCart        = errors.New("recipe is already removed from the shopping cart")

	ErrSelfFollow       = errors.New("cannot subscribe to yourself")
	ErrAlreadyFollowing = errors.New("subscription already exists")
	ErrFollowNotFound   = errors.New("subscription not found")
)

// ValidationError reports a malformed or out-of-range field in a write
// payload. Handlers render it as a 400 with a field-level message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
