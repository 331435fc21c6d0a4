package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/backend/internal/testhelpers"
)

func TestRelationService_Favorite(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewRelationService(db)

	author := testhelpers.CreateTestUser(t, db, "alice")
	viewer := testhelpers.CreateTestUser(t, db, "bob")
	tag := testhelpers.CreateTestTag(t, db, "Dinner", "#8775D2", "dinner")
	salt := testhelpers.CreateTestIngredient(t, db, "Salt", "g")
	recipe := testhelpers.CreateTestRecipe(t, db, author, "Soup", tag, salt, 3)

	short, err := svc.Add(context.Background(), RelationFavorite, viewer.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, short.ID)
	assert.Equal(t, "Soup", short.Name)

	_, err = svc.Add(context.Background(), RelationFavorite, viewer.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrAlreadyFavorited)

	require.NoError(t, svc.Remove(context.Background(), RelationFavorite, viewer.ID, recipe.ID))
	assert.ErrorIs(t, svc.Remove(context.Background(), RelationFavorite, viewer.ID, recipe.ID), ErrNotFavorited)
}

func TestRelationService_Cart(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewRelationService(db)

	author := testhelpers.CreateTestUser(t, db, "alice")
	viewer := testhelpers.CreateTestUser(t, db, "bob")
	tag := testhelpers.CreateTestTag(t, db, "Dinner", "#8775D2", "dinner")
	salt := testhelpers.CreateTestIngredient(t, db, "Salt", "g")
	recipe := testhelpers.CreateTestRecipe(t, db, author, "Soup", tag, salt, 3)

	_, err := svc.Add(context.Background(), RelationCart, viewer.ID, recipe.ID)
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), RelationCart, viewer.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrAlreadyInCart)

	require.NoError(t, svc.Remove(context.Background(), RelationCart, viewer.ID, recipe.ID))
	assert.ErrorIs(t, svc.Remove(context.Background(), RelationCart, viewer.ID, recipe.ID), ErrNotInCart)
}

func TestRelationService_UnknownRecipe(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewRelationService(db)

	viewer := testhelpers.CreateTestUser(t, db, "bob")

	_, err := svc.Add(context.Background(), RelationFavorite, viewer.ID, uuid.New())
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	_, err = svc.Add(context.Background(), RelationCart, viewer.ID, uuid.New())
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestRelationService_IndependentPerUser(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewRelationService(db)

	author := testhelpers.CreateTestUser(t, db, "alice")
	bob := testhelpers.CreateTestUser(t, db, "bob")
	carol := testhelpers.CreateTestUser(t, db, "carol")
	tag := testhelpers.CreateTestTag(t, db, "Dinner", "#8775D2", "dinner")
	salt := testhelpers.CreateTestIngredient(t, db, "Salt", "g")
	recipe := testhelpers.CreateTestRecipe(t, db, author, "Soup", tag, salt, 3)

	_, err := svc.Add(context.Background(), RelationFavorite, bob.ID, recipe.ID)
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), RelationFavorite, carol.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), RelationFavorite, bob.ID, recipe.ID))
	assert.ErrorIs(t, svc.Remove(context.Background(), RelationFavorite, bob.ID, recipe.ID), ErrNotFavorited)
	require.NoError(t, svc.Remove(context.Background(), RelationFavorite, carol.ID, recipe.ID))
}
