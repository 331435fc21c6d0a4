package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plateful/backend/internal/models"
)

// RelationKind selects which (user, recipe) join table a toggle acts on.
type RelationKind int

const (
	RelationFavorite RelationKind = iota
	RelationCart
)

// RelationService handles the favorite and shopping-cart toggles. Both are
// pure (user, recipe) pairs with identical add/remove semantics, differing
// only in table and error messages.
type RelationService struct {
	db *gorm.DB
}

func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

// Add inserts the (user, recipe) row and returns the recipe's short
// representation. Adding twice is a conflict, not a counter.
func (s *RelationService) Add(ctx context.Context, kind RelationKind, userID, recipeID uuid.UUID) (*RecipeShort, error) {
	db := s.db.WithContext(ctx)

	exists, err := s.pairExists(db, kind, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		if kind == RelationFavorite {
			return nil, ErrAlreadyFavorited
		}
		return nil, ErrAlreadyInCart
	}

	var recipe models.Recipe
	if err := db.First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	if kind == RelationFavorite {
		err = db.Create(&models.Favorite{UserID: userID, RecipeID: recipeID}).Error
	} else {
		err = db.Create(&models.CartItem{UserID: userID, RecipeID: recipeID}).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if kind == RelationFavorite {
				return nil, ErrAlreadyFavorited
			}
			return nil, ErrAlreadyInCart
		}
		return nil, err
	}
	return newRecipeShort(&recipe), nil
}

// Remove deletes the (user, recipe) row. Removing an absent row is reported,
// never ignored.
func (s *RelationService) Remove(ctx context.Context, kind RelationKind, userID, recipeID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	var result *gorm.DB
	if kind == RelationFavorite {
		result = db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&models.Favorite{})
	} else {
		result = db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&models.CartItem{})
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if kind == RelationFavorite {
			return ErrNotFavorited
		}
		return ErrNotInCart
	}
	return nil
}

func (s *RelationService) pairExists(db *gorm.DB, kind RelationKind, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	q := db.Model(&models.Favorite{})
	if kind == RelationCart {
		q = db.Model(&models.CartItem{})
	}
	err := q.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error
	return count > 0, err
}
