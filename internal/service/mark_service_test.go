package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "foodgram/internal/errors"
	"foodgram/internal/model"
)

func TestMarkService_AddMark(t *testing.T) {
	recipe := &model.Recipe{ID: 3, Name: "Borscht", CookingTime: 90}

	t.Run("absent to present", func(t *testing.T) {
		recipeRepo := new(MockRecipeRepository)
		recipeRepo.On("FindByID", mock.Anything, uint(3)).Return(recipe, nil)
		markRepo := new(MockMarkRepository)
		markRepo.On("Exists", mock.Anything, uint(1), uint(3), model.MarkFavorite).Return(false, nil)
		markRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.RecipeMark")).Return(nil)

		svc := NewMarkService(markRepo, recipeRepo)
		got, err := svc.AddMark(context.Background(), 1, 3, model.MarkFavorite)

		assert.NoError(t, err)
		assert.Equal(t, "Borscht", got.Name)
		markRepo.AssertExpectations(t)
	})

	t.Run("duplicate add is a conflict", func(t *testing.T) {
		recipeRepo := new(MockRecipeRepository)
		recipeRepo.On("FindByID", mock.Anything, uint(3)).Return(recipe, nil)
		markRepo := new(MockMarkRepository)
		markRepo.On("Exists", mock.Anything, uint(1), uint(3), model.MarkCart).Return(true, nil)

		svc := NewMarkService(markRepo, recipeRepo)
		_, err := svc.AddMark(context.Background(), 1, 3, model.MarkCart)

		assert.ErrorIs(t, err, apperrors.ErrAlreadyMarked)
		markRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("lost race surfaces as conflict", func(t *testing.T) {
		recipeRepo := new(MockRecipeRepository)
		recipeRepo.On("FindByID", mock.Anything, uint(3)).Return(recipe, nil)
		markRepo := new(MockMarkRepository)
		markRepo.On("Exists", mock.Anything, uint(1), uint(3), model.MarkCart).Return(false, nil)
		markRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.RecipeMark")).Return(gorm.ErrDuplicatedKey)

		svc := NewMarkService(markRepo, recipeRepo)
		_, err := svc.AddMark(context.Background(), 1, 3, model.MarkCart)

		assert.ErrorIs(t, err, apperrors.ErrAlreadyMarked)
	})

	t.Run("unknown recipe", func(t *testing.T) {
		recipeRepo := new(MockRecipeRepository)
		recipeRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewMarkService(new(MockMarkRepository), recipeRepo)
		_, err := svc.AddMark(context.Background(), 1, 99, model.MarkFavorite)

		assert.ErrorIs(t, err, apperrors.ErrRecipeNotFound)
	})
}

func TestMarkService_RemoveMark(t *testing.T) {
	t.Run("present to absent", func(t *testing.T) {
		markRepo := new(MockMarkRepository)
		markRepo.On("Delete", mock.Anything, uint(1), uint(3), model.MarkCart).Return(true, nil)

		svc := NewMarkService(markRepo, new(MockRecipeRepository))
		assert.NoError(t, svc.RemoveMark(context.Background(), 1, 3, model.MarkCart))
	})

	t.Run("removing an absent mark fails", func(t *testing.T) {
		markRepo := new(MockMarkRepository)
		markRepo.On("Delete", mock.Anything, uint(1), uint(3), model.MarkCart).Return(false, nil)

		svc := NewMarkService(markRepo, new(MockRecipeRepository))
		err := svc.RemoveMark(context.Background(), 1, 3, model.MarkCart)

		assert.ErrorIs(t, err, apperrors.ErrMarkNotFound)
	})
}

func TestFormatShoppingList(t *testing.T) {
	salt := model.Ingredient{ID: 1, Name: "Salt", MeasurementUnit: "g"}
	water := model.Ingredient{ID: 2, Name: "Water", MeasurementUnit: "ml"}

	recipes := []model.Recipe{
		{
			Name: "A",
			Ingredients: []model.RecipeIngredient{
				{Ingredient: salt, Amount: 2},
				{Ingredient: water, Amount: 100},
			},
		},
		{
			Name: "B",
			Ingredients: []model.RecipeIngredient{
				{Ingredient: salt, Amount: 5},
			},
		},
	}

	got := FormatShoppingList(recipes)

	// Shared ingredients stay per recipe; quantities are not summed across lines.
	assert.Equal(t, "A: Salt - 2 g, Water - 100 ml\nB: Salt - 5 g", got)
}

func TestFormatShoppingList_Empty(t *testing.T) {
	assert.Equal(t, "", FormatShoppingList(nil))
}

func TestMarkService_ShoppingList(t *testing.T) {
	markRepo := new(MockMarkRepository)
	markRepo.On("ListRecipes", mock.Anything, uint(1), model.MarkCart).Return([]model.Recipe{
		{
			Name: "Soup",
			Ingredients: []model.RecipeIngredient{
				{Ingredient: model.Ingredient{Name: "Onion", MeasurementUnit: "pcs"}, Amount: 2},
			},
		},
	}, nil)

	svc := NewMarkService(markRepo, new(MockRecipeRepository))
	got, err := svc.ShoppingList(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, "Soup: Onion - 2 pcs", got)
}
