package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "foodgram/internal/errors"
	"foodgram/internal/model"
	"foodgram/internal/repository"
)

// IngredientService exposes read-only ingredient operations.
type IngredientService interface {
	GetIngredient(ctx context.Context, id uint) (*model.Ingredient, error)
	// ListIngredients filters by name substring; empty returns everything.
	ListIngredients(ctx context.Context, nameSubstring string) ([]model.Ingredient, error)
}

type ingredientService struct {
	repo repository.IngredientRepository
}

// NewIngredientService builds an IngredientService.
func NewIngredientService(repo repository.IngredientRepository) IngredientService {
	return &ingredientService{repo: repo}
}

func (s *ingredientService) GetIngredient(ctx context.Context, id uint) (*model.Ingredient, error) {
	ingredient, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIngredientNotFound
		}
		return nil, err
	}
	return ingredient, nil
}

func (s *ingredientService) ListIngredients(ctx context.Context, nameSubstring string) ([]model.Ingredient, error) {
	return s.repo.List(ctx, nameSubstring)
}
