package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/backend/internal/database"
	"github.com/plateful/backend/internal/models"
	"github.com/plateful/backend/internal/testhelpers"
)

func TestAutoMigrateCreatesSchema(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)

	for _, table := range []string{
		"users", "tags", "ingredients", "recipes",
		"recipe_tags", "recipe_ingredients",
		"favorites", "cart_items", "follows",
	} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestHealthCheck(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	require.NoError(t, database.HealthCheck(context.Background(), db))
}

func TestUniqueConstraints(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)

	require.NoError(t, db.Create(&models.Tag{Name: "Dinner", Color: "#8775D2", Slug: "dinner"}).Error)
	assert.Error(t, db.Create(&models.Tag{Name: "Dinner", Color: "#FFFFFF", Slug: "dinner-2"}).Error)

	require.NoError(t, db.Create(&models.Ingredient{Name: "Salt", MeasurementUnit: "g"}).Error)
	assert.Error(t, db.Create(&models.Ingredient{Name: "Salt", MeasurementUnit: "g"}).Error)

	// same name with a different unit is a distinct ingredient
	assert.NoError(t, db.Create(&models.Ingredient{Name: "Salt", MeasurementUnit: "tsp"}).Error)
}

func TestMigrationsOnPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	db := testhelpers.SetupPostgresDatabase(t)

	for _, table := range []string{"users", "recipes", "recipe_ingredients", "follows"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}

	user := models.User{
		Email: "alice@example.com", Username: "alice",
		FirstName: "Alice", LastName: "Tester", PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)

	// self-follow is rejected by the check constraint
	assert.Error(t, db.Create(&models.Follow{UserID: user.ID, AuthorID: user.ID}).Error)
}
