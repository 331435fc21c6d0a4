package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID  `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"-"`
	Name        string     `gorm:"size:200;uniqueIndex;not null" json:"name"`
	AuthorID    *uuid.UUID `gorm:"type:uuid;index" json:"author_id,omitempty"`
	Author      *User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
	Image       string     `gorm:"size:255" json:"image"`
	Description string     `gorm:"type:text;not null" json:"description"`
	CookingTime int        `gorm:"not null;check:chk_cooking_time,cooking_time >= 1 AND cooking_time <= 1441" json:"cooking_time"`

	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"-"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient records how much of an ingredient a recipe requires.
// One row per distinct ingredient per recipe.
type RecipeIngredient struct {
	ID           uuid.UUID   `gorm:"type:uuid;primarykey" json:"-"`
	RecipeID     uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"-"`
	IngredientID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"id"`
	Amount       int         `gorm:"not null;check:chk_amount,amount >= 1" json:"amount"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}
