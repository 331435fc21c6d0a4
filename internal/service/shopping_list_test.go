package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/backend/internal/models"
	"github.com/plateful/backend/internal/testhelpers"
)

func TestShoppingListService_Build(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewShoppingListService(db)
	relations := NewRelationService(db)

	author := testhelpers.CreateTestUser(t, db, "alice")
	viewer := testhelpers.CreateTestUser(t, db, "bob")
	tag := testhelpers.CreateTestTag(t, db, "Dinner", "#8775D2", "dinner")
	salt := testhelpers.CreateTestIngredient(t, db, "Salt", "g")
	flour := testhelpers.CreateTestIngredient(t, db, "Flour", "g")

	soup := testhelpers.CreateTestRecipe(t, db, author, "Soup", tag, salt, 5)
	bread := testhelpers.CreateTestRecipe(t, db, author, "Bread", tag, salt, 3)
	require.NoError(t, db.Create(&models.RecipeIngredient{
		RecipeID:     bread.ID,
		IngredientID: flour.ID,
		Amount:       500,
	}).Error)

	_, err := relations.Add(context.Background(), RelationCart, viewer.ID, soup.ID)
	require.NoError(t, err)
	_, err = relations.Add(context.Background(), RelationCart, viewer.ID, bread.ID)
	require.NoError(t, err)

	items, err := svc.Build(context.Background(), viewer.ID)
	require.NoError(t, err)

	// shared ingredients sum, ordered by name
	require.Len(t, items, 2)
	assert.Equal(t, ShoppingListItem{Name: "Flour", MeasurementUnit: "g", Total: 500}, items[0])
	assert.Equal(t, ShoppingListItem{Name: "Salt", MeasurementUnit: "g", Total: 8}, items[1])

	assert.Equal(t, "Shopping list:\nFlour(g) - 500\nSalt(g) - 8", svc.Render(items))
}

func TestShoppingListService_EmptyCart(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewShoppingListService(db)

	viewer := testhelpers.CreateTestUser(t, db, "bob")

	items, err := svc.Build(context.Background(), viewer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, "Shopping list:", svc.Render(items))
}

func TestShoppingListService_ScopedToUser(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewShoppingListService(db)
	relations := NewRelationService(db)

	author := testhelpers.CreateTestUser(t, db, "alice")
	bob := testhelpers.CreateTestUser(t, db, "bob")
	carol := testhelpers.CreateTestUser(t, db, "carol")
	tag := testhelpers.CreateTestTag(t, db, "Dinner", "#8775D2", "dinner")
	salt := testhelpers.CreateTestIngredient(t, db, "Salt", "g")
	sugar := testhelpers.CreateTestIngredient(t, db, "Sugar", "g")

	soup := testhelpers.CreateTestRecipe(t, db, author, "Soup", tag, salt, 5)
	cake := testhelpers.CreateTestRecipe(t, db, author, "Cake", tag, sugar, 100)

	_, err := relations.Add(context.Background(), RelationCart, bob.ID, soup.ID)
	require.NoError(t, err)
	_, err = relations.Add(context.Background(), RelationCart, carol.ID, cake.ID)
	require.NoError(t, err)

	items, err := svc.Build(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Salt", items[0].Name)
}
