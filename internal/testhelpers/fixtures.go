package testhelpers

import (
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/plateful/backend/internal/models"
)

const TestPassword = "password123"

// CreateTestUser inserts a user whose email and names are derived from the
// username. The password is always TestPassword.
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		FirstName:    username,
		LastName:     "Tester",
		PasswordHash: string(hashed),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return &user
}

func CreateTestTag(t *testing.T, db *gorm.DB, name, color, slug string) *models.Tag {
	t.Helper()

	tag := models.Tag{Name: name, Color: color, Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return &tag
}

func CreateTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ingredient).Error; err != nil {
		t.Fatalf("failed to create test ingredient: %v", err)
	}
	return &ingredient
}

// CreateTestRecipe inserts a recipe with one tag and one ingredient row so
// relation and listing tests have something complete to work with.
func CreateTestRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tag *models.Tag, ingredient *models.Ingredient, amount int) *models.Recipe {
	t.Helper()

	recipe := models.Recipe{
		Name:        name,
		AuthorID:    &author.ID,
		Description: fmt.Sprintf("How to make %s", name),
		CookingTime: 30,
	}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	if tag != nil {
		if err := db.Model(&recipe).Association("Tags").Append(tag); err != nil {
			t.Fatalf("failed to attach tag: %v", err)
		}
	}
	if ingredient != nil {
		row := models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ingredient.ID,
			Amount:       amount,
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("failed to attach ingredient: %v", err)
		}
	}
	return &recipe
}
