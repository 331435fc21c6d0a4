package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plateful/backend/internal/models"
	"github.com/plateful/backend/internal/types"
)

// RecipeService owns the recipe write transaction and the read/hydrate path.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// validateInput runs the payload checks for a recipe write: tags non-empty
// and existing, cooking time at least one minute (the upper bound is a
// storage-layer check constraint), ingredient list non-empty with unique
// entries and positive amounts, every referenced ingredient existing.
// No side effects; lookups only.
func (s *RecipeService) validateInput(db *gorm.DB, input *types.RecipeInput) ([]models.Tag, []models.RecipeIngredient, error) {
	if len(input.Tags) == 0 {
		return nil, nil, &ValidationError{Field: "tags", Message: "tags required"}
	}

	tagIDs := make([]uuid.UUID, 0, len(input.Tags))
	seenTags := make(map[uuid.UUID]bool, len(input.Tags))
	for _, id := range input.Tags {
		if !seenTags[id] {
			seenTags[id] = true
			tagIDs = append(tagIDs, id)
		}
	}
	var tags []models.Tag
	if err := db.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return nil, nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, nil, &ValidationError{Field: "tags", Message: "tag does not exist"}
	}

	if input.CookingTime < 1 {
		return nil, nil, &ValidationError{Field: "cooking_time", Message: "cooking time must be at least 1 minute"}
	}

	if len(input.Ingredients) == 0 {
		return nil, nil, &ValidationError{Field: "ingredients", Message: "ingredients required"}
	}
	seen := make(map[uuid.UUID]bool, len(input.Ingredients))
	for _, item := range input.Ingredients {
		if seen[item.ID] {
			return nil, nil, &ValidationError{Field: "ingredients", Message: "ingredients must not repeat"}
		}
		seen[item.ID] = true
		if item.Amount < 1 {
			return nil, nil, &ValidationError{Field: "ingredients", Message: "amount must be a positive integer"}
		}
	}
	ingredientIDs := make([]uuid.UUID, 0, len(seen))
	for id := range seen {
		ingredientIDs = append(ingredientIDs, id)
	}
	var count int64
	if err := db.Model(&models.Ingredient{}).Where("id IN ?", ingredientIDs).Count(&count).Error; err != nil {
		return nil, nil, err
	}
	if int(count) != len(ingredientIDs) {
		return nil, nil, ErrIngredientNotFound
	}

	rows := make([]models.RecipeIngredient, 0, len(input.Ingredients))
	for _, item := range input.Ingredients {
		rows = append(rows, models.RecipeIngredient{
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	return tags, rows, nil
}

// Create validates the payload and persists the recipe, its tag set and its
// quantified ingredients as one atomic unit. It returns the new recipe id;
// callers hydrate the response through GetDetail.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, input *types.RecipeInput) (uuid.UUID, error) {
	db := s.db.WithContext(ctx)

	tags, rows, err := s.validateInput(db, input)
	if err != nil {
		return uuid.Nil, err
	}

	recipe := models.Recipe{
		Name:        input.Name,
		AuthorID:    &authorID,
		Image:       input.Image,
		Description: input.Description,
		CookingTime: input.CookingTime,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(&tags); err != nil {
			return err
		}
		for i := range rows {
			rows[i].RecipeID = recipe.ID
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return uuid.Nil, err
	}
	return recipe.ID, nil
}

// Update replaces the recipe's tag set, deletes and recreates its
// quantified-ingredient rows, then updates the scalar fields, all in one
// transaction. Ingredient lists are small, so replace-on-update beats
// diffing.
func (s *RecipeService) Update(ctx context.Context, recipeID, actorID uuid.UUID, input *types.RecipeInput) error {
	db := s.db.WithContext(ctx)

	var recipe models.Recipe
	if err := db.First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	if recipe.AuthorID == nil || *recipe.AuthorID != actorID {
		return ErrNotRecipeAuthor
	}

	tags, rows, err := s.validateInput(db, input)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&recipe).Association("Tags").Replace(&tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		return tx.Model(&recipe).Updates(map[string]interface{}{
			"name":         input.Name,
			"image":        input.Image,
			"description":  input.Description,
			"cooking_time": input.CookingTime,
		}).Error
	})
}

func (s *RecipeService) Delete(ctx context.Context, recipeID, actorID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	var recipe models.Recipe
	if err := db.First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	if recipe.AuthorID == nil || *recipe.AuthorID != actorID {
		return ErrNotRecipeAuthor
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// GetDetail returns the fully hydrated recipe: tags, quantified ingredients
// with names and units, author with the viewer's subscription flag, and the
// viewer's favorite/cart flags.
func (s *RecipeService) GetDetail(ctx context.Context, recipeID uuid.UUID, viewer *uuid.UUID) (*RecipeDetail, error) {
	db := s.db.WithContext(ctx)

	var recipe models.Recipe
	err := db.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Ingredients.Ingredient").
		Preload("Author").
		First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	details, err := s.buildDetails(db, []models.Recipe{recipe}, viewer)
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// List applies the declarative recipe filters and returns hydrated pages,
// newest first.
func (s *RecipeService) List(ctx context.Context, filter *types.RecipeFilter) ([]RecipeDetail, int64, error) {
	db := s.db.WithContext(ctx)

	apply := func(q *gorm.DB) *gorm.DB {
		if len(filter.TagSlugs) > 0 {
			sub := s.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs)
			q = q.Where("recipes.id IN (?)", sub)
		}
		if filter.AuthorID != nil {
			q = q.Where("recipes.author_id = ?", *filter.AuthorID)
		}
		if filter.Viewer != nil {
			if filter.Favorited {
				q = q.Where("recipes.id IN (?)", s.db.Table("favorites").
					Select("recipe_id").Where("user_id = ?", *filter.Viewer))
			}
			if filter.InShoppingCart {
				q = q.Where("recipes.id IN (?)", s.db.Table("cart_items").
					Select("recipe_id").Where("user_id = ?", *filter.Viewer))
			}
		}
		return q
	}

	var total int64
	if err := apply(db.Model(&models.Recipe{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := apply(db.Model(&models.Recipe{})).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Ingredients.Ingredient").
		Preload("Author").
		Order("recipes.created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
		if filter.Page > 1 {
			q = q.Offset((filter.Page - 1) * filter.Limit)
		}
	}

	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	details, err := s.buildDetails(db, recipes, filter.Viewer)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// buildDetails projects preloaded recipes into read shapes, resolving the
// viewer's favorite/cart/subscription flags with batched lookups.
func (s *RecipeService) buildDetails(db *gorm.DB, recipes []models.Recipe, viewer *uuid.UUID) ([]RecipeDetail, error) {
	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for i := range recipes {
		recipeIDs = append(recipeIDs, recipes[i].ID)
		if recipes[i].AuthorID != nil {
			authorIDs = append(authorIDs, *recipes[i].AuthorID)
		}
	}

	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	subscribed := map[uuid.UUID]bool{}
	if viewer != nil && len(recipeIDs) > 0 {
		var err error
		if favorited, err = pairSet(db, "favorites", *viewer, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = pairSet(db, "cart_items", *viewer, recipeIDs); err != nil {
			return nil, err
		}
		if len(authorIDs) > 0 {
			var ids []uuid.UUID
			err = db.Table("follows").
				Where("user_id = ? AND author_id IN ?", *viewer, authorIDs).
				Pluck("author_id", &ids).Error
			if err != nil {
				return nil, err
			}
			for _, id := range ids {
				subscribed[id] = true
			}
		}
	}

	details := make([]RecipeDetail, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		ingredients := make([]RecipeIngredientView, 0, len(r.Ingredients))
		for _, row := range r.Ingredients {
			view := RecipeIngredientView{ID: row.IngredientID, Amount: row.Amount}
			if row.Ingredient != nil {
				view.Name = row.Ingredient.Name
				view.MeasurementUnit = row.Ingredient.MeasurementUnit
			}
			ingredients = append(ingredients, view)
		}
		var author *UserSummary
		if r.Author != nil {
			author = newUserSummary(r.Author, subscribed[r.Author.ID])
		}
		tags := r.Tags
		if tags == nil {
			tags = []models.Tag{}
		}
		details = append(details, RecipeDetail{
			ID:               r.ID,
			Tags:             tags,
			Author:           author,
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Description:      r.Description,
			CookingTime:      r.CookingTime,
			CreatedAt:        r.CreatedAt,
		})
	}
	return details, nil
}

// pairSet returns which of the given recipes have a (user, recipe) row in
// the given join table.
func pairSet(db *gorm.DB, table string, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := db.Table(table).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
