package repository

import (
	"context"

	"gorm.io/gorm"

	"foodgram/internal/model"
)

// IngredientRepository defines ingredient persistence operations.
type IngredientRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Ingredient, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Ingredient, error)
	// List returns ingredients whose name contains the given substring;
	// an empty substring returns everything.
	List(ctx context.Context, nameSubstring string) ([]model.Ingredient, error)
	// FirstOrCreate inserts the ingredient unless a row with the same name
	// and unit already exists.
	FirstOrCreate(ctx context.Context, ingredient *model.Ingredient) error
}

type ingredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository builds a GORM-backed repository.
func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) FindByID(ctx context.Context, id uint) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) List(ctx context.Context, nameSubstring string) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	q := r.db.WithContext(ctx).Order("name")
	if nameSubstring != "" {
		q = q.Where("name LIKE ?", "%"+nameSubstring+"%")
	}
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) FirstOrCreate(ctx context.Context, ingredient *model.Ingredient) error {
	return r.db.WithContext(ctx).
		Where("name = ? AND measurement_unit = ?", ingredient.Name, ingredient.MeasurementUnit).
		FirstOrCreate(ingredient).Error
}
