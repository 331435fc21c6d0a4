package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plateful/backend/internal/models"
)

// SubscriptionService manages user-to-author follow edges.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// SubscriptionItem is a followed author together with a preview of their
// most recent recipes.
type SubscriptionItem struct {
	UserSummary
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

// Follow creates the edge. Self-follows and duplicates are rejected.
func (s *SubscriptionService) Follow(ctx context.Context, userID, authorID uuid.UUID) (*SubscriptionItem, error) {
	if userID == authorID {
		return nil, ErrSelfFollow
	}
	db := s.db.WithContext(ctx)

	var author models.User
	if err := db.First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var count int64
	if err := db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyFollowing
	}

	if err := db.Create(&models.Follow{UserID: userID, AuthorID: authorID}).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyFollowing
		}
		return nil, err
	}

	return s.buildItem(db, &author, 0)
}

// Unfollow deletes the edge; removing an absent subscription is a NotFound.
func (s *SubscriptionService) Unfollow(ctx context.Context, userID, authorID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	var author models.User
	if err := db.First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	result := db.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFollowNotFound
	}
	return nil
}

// List returns the authors the user follows, each with up to recipesLimit of
// their most recent recipes (all of them when recipesLimit is zero).
func (s *SubscriptionService) List(ctx context.Context, userID uuid.UUID, recipesLimit, limit, page int) ([]SubscriptionItem, int64, error) {
	db := s.db.WithContext(ctx)

	apply := func(q *gorm.DB) *gorm.DB {
		return q.Where("users.id IN (?)", s.db.Table("follows").
			Select("author_id").Where("user_id = ?", userID))
	}

	var total int64
	if err := apply(db.Model(&models.User{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := apply(db.Model(&models.User{})).Order("users.username")
	if limit > 0 {
		q = q.Limit(limit)
		if page > 1 {
			q = q.Offset((page - 1) * limit)
		}
	}

	var authors []models.User
	if err := q.Find(&authors).Error; err != nil {
		return nil, 0, err
	}

	items := make([]SubscriptionItem, 0, len(authors))
	for i := range authors {
		item, err := s.buildItem(db, &authors[i], recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
	}
	return items, total, nil
}

// Profile returns a user's public profile with the viewer's subscription
// flag resolved.
func (s *SubscriptionService) Profile(ctx context.Context, userID uuid.UUID, viewer *uuid.UUID) (*UserSummary, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	subscribed := false
	if viewer != nil {
		var count int64
		if err := db.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", *viewer, userID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		subscribed = count > 0
	}
	return newUserSummary(&user, subscribed), nil
}

func (s *SubscriptionService) buildItem(db *gorm.DB, author *models.User, recipesLimit int) (*SubscriptionItem, error) {
	var count int64
	if err := db.Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&count).Error; err != nil {
		return nil, err
	}

	q := db.Model(&models.Recipe{}).
		Where("author_id = ?", author.ID).
		Order("created_at DESC")
	if recipesLimit > 0 {
		q = q.Limit(recipesLimit)
	}
	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}

	shorts := make([]RecipeShort, 0, len(recipes))
	for i := range recipes {
		shorts = append(shorts, *newRecipeShort(&recipes[i]))
	}

	summary := newUserSummary(author, true)
	return &SubscriptionItem{
		UserSummary:  *summary,
		Recipes:      shorts,
		RecipesCount: count,
	}, nil
}
