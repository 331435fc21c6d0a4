package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShoppingListService aggregates the quantified ingredients of every recipe
// in a user's cart into a flat shopping list. Read-only.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int    `json:"total"`
}

// Build groups the cart's ingredient rows by (name, unit), sums amounts and
// orders by ingredient name.
func (s *ShoppingListService) Build(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN cart_items ON cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where("cart_items.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Render formats the list as the plain-text attachment body.
func (s *ShoppingListService) Render(items []ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Shopping list:")
	for _, item := range items {
		fmt.Fprintf(&b, "\n%s(%s) - %d", item.Name, item.MeasurementUnit, item.Total)
	}
	return b.String()
}
