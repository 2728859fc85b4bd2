package repository

import (
	"context"

	"gorm.io/gorm"

	"foodgram/internal/model"
)

// MarkRepository defines persistence for favorite/cart marker rows.
type MarkRepository interface {
	Create(ctx context.Context, mark *model.RecipeMark) error
	// Delete removes the (user, recipe, kind) row and reports whether it existed.
	Delete(ctx context.Context, userID, recipeID uint, kind model.MarkKind) (bool, error)
	Exists(ctx context.Context, userID, recipeID uint, kind model.MarkKind) (bool, error)
	// ListRecipes returns all recipes the user has marked with the given
	// kind, with tags and ingredient lines preloaded.
	ListRecipes(ctx context.Context, userID uint, kind model.MarkKind) ([]model.Recipe, error)
}

type markRepository struct {
	db *gorm.DB
}

// NewMarkRepository builds a GORM-backed repository.
func NewMarkRepository(db *gorm.DB) MarkRepository {
	return &markRepository{db: db}
}

func (r *markRepository) Create(ctx context.Context, mark *model.RecipeMark) error {
	return r.db.WithContext(ctx).Create(mark).Error
}

func (r *markRepository) Delete(ctx context.Context, userID, recipeID uint, kind model.MarkKind) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Delete(&model.RecipeMark{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *markRepository) Exists(ctx context.Context, userID, recipeID uint, kind model.MarkKind) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RecipeMark{}).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *markRepository) ListRecipes(ctx context.Context, userID uint, kind model.MarkKind) ([]model.Recipe, error) {
	marked := r.db.Model(&model.RecipeMark{}).
		Select("recipe_id").
		Where("user_id = ? AND kind = ?", userID, kind)

	var recipes []model.Recipe
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Where("id IN (?)", marked).
		Order("name").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}
