package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/backend/internal/testhelpers"
)

func TestCatalogService_Tags(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewCatalogService(db)

	dinner := testhelpers.CreateTestTag(t, db, "Dinner", "#8775D2", "dinner")
	testhelpers.CreateTestTag(t, db, "Breakfast", "#E26C2D", "breakfast")

	tags, err := svc.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)

	tag, err := svc.GetTag(context.Background(), dinner.ID)
	require.NoError(t, err)
	assert.Equal(t, "dinner", tag.Slug)

	_, err = svc.GetTag(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestCatalogService_Ingredients(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewCatalogService(db)

	salt := testhelpers.CreateTestIngredient(t, db, "Salt", "g")
	testhelpers.CreateTestIngredient(t, db, "Sugar", "g")
	testhelpers.CreateTestIngredient(t, db, "Flour", "g")

	all, err := svc.ListIngredients(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// prefix match is case-insensitive and excludes substrings
	matched, err := svc.ListIngredients(context.Background(), "s")
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "Salt", matched[0].Name)
	assert.Equal(t, "Sugar", matched[1].Name)

	none, err := svc.ListIngredients(context.Background(), "alt")
	require.NoError(t, err)
	assert.Empty(t, none)

	ingredient, err := svc.GetIngredient(context.Background(), salt.ID)
	require.NoError(t, err)
	assert.Equal(t, "g", ingredient.MeasurementUnit)

	_, err = svc.GetIngredient(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrIngredientNotFound)
}
