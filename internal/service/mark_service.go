package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "foodgram/internal/errors"
	"foodgram/internal/model"
	"foodgram/internal/repository"
)

// MarkService drives the favorite and shopping-cart marker relations and
// the shopping-list text export.
type MarkService interface {
	// AddMark transitions (user, recipe, kind) from absent to present and
	// returns the marked recipe. A duplicate add is a conflict.
	AddMark(ctx context.Context, userID, recipeID uint, kind model.MarkKind) (*model.Recipe, error)
	// RemoveMark transitions present to absent; removing an absent mark fails.
	RemoveMark(ctx context.Context, userID, recipeID uint, kind model.MarkKind) error
	// ShoppingList renders the user's cart as text, one line per recipe.
	ShoppingList(ctx context.Context, userID uint) (string, error)
}

type markService struct {
	markRepo   repository.MarkRepository
	recipeRepo repository.RecipeRepository
}

// NewMarkService builds a MarkService.
func NewMarkService(markRepo repository.MarkRepository, recipeRepo repository.RecipeRepository) MarkService {
	return &markService{markRepo: markRepo, recipeRepo: recipeRepo}
}

func (s *markService) AddMark(ctx context.Context, userID, recipeID uint, kind model.MarkKind) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecipeNotFound
		}
		return nil, err
	}

	exists, err := s.markRepo.Exists(ctx, userID, recipeID, kind)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrAlreadyMarked
	}

	mark := &model.RecipeMark{UserID: userID, RecipeID: recipeID, Kind: kind}
	if err := s.markRepo.Create(ctx, mark); err != nil {
		// The unique index catches the race between two concurrent adds.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadyMarked
		}
		return nil, fmt.Errorf("create mark: %w", err)
	}
	return recipe, nil
}

func (s *markService) RemoveMark(ctx context.Context, userID, recipeID uint, kind model.MarkKind) error {
	removed, err := s.markRepo.Delete(ctx, userID, recipeID, kind)
	if err != nil {
		return fmt.Errorf("delete mark: %w", err)
	}
	if !removed {
		return apperrors.ErrMarkNotFound
	}
	return nil
}

func (s *markService) ShoppingList(ctx context.Context, userID uint) (string, error) {
	recipes, err := s.markRepo.ListRecipes(ctx, userID, model.MarkCart)
	if err != nil {
		return "", err
	}
	return FormatShoppingList(recipes), nil
}

// FormatShoppingList renders one line per recipe:
//
//	RecipeName: ingredient - amount unit, ingredient - amount unit
//
// Ingredients are deliberately not merged across recipes; each cart recipe
// lists its own, even when two recipes share an ingredient.
func FormatShoppingList(recipes []model.Recipe) string {
	lines := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		parts := make([]string, 0, len(recipe.Ingredients))
		for _, line := range recipe.Ingredients {
			parts = append(parts, fmt.Sprintf("%s - %d %s",
				line.Ingredient.Name, line.Amount, line.Ingredient.MeasurementUnit))
		}
		lines = append(lines, fmt.Sprintf("%s: %s", recipe.Name, strings.Join(parts, ", ")))
	}
	return strings.Join(lines, "\n")
}
