package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"foodgram/internal/cache"
	apperrors "foodgram/internal/errors"
	"foodgram/internal/images"
	"foodgram/internal/model"
	"foodgram/internal/repository"
)

const recipeCacheTTL = 5 * time.Minute

// IngredientAmount pairs an ingredient reference with its amount.
type IngredientAmount struct {
	IngredientID uint
	Amount       int
}

// RecipeInput is the write projection of a recipe. Image is a base64 data
// URI; on update an empty Image keeps the stored one.
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []uint
	Ingredients []IngredientAmount
}

// RecipeView is a recipe with the viewer-relative flags of the read projection.
type RecipeView struct {
	Recipe           *model.Recipe
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorSubscribed bool
}

// RecipeService exposes recipe CRUD and the short-link action.
type RecipeService interface {
	CreateRecipe(ctx context.Context, authorID uint, input RecipeInput) (*RecipeView, error)
	UpdateRecipe(ctx context.Context, id, callerID uint, input RecipeInput) (*RecipeView, error)
	DeleteRecipe(ctx context.Context, id, callerID uint) error
	GetRecipe(ctx context.Context, id, viewerID uint) (*RecipeView, error)
	ListRecipes(ctx context.Context, filter repository.RecipeFilter) ([]RecipeView, error)
	ShortLink(ctx context.Context, id uint) (string, error)
}

type recipeService struct {
	recipeRepo     repository.RecipeRepository
	tagRepo        repository.TagRepository
	ingredientRepo repository.IngredientRepository
	markRepo       repository.MarkRepository
	subRepo        repository.SubscriptionRepository
	cache          *cache.Client
	mediaDir       string
	shortLinkHost  string
}

// NewRecipeService builds a RecipeService.
func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	tagRepo repository.TagRepository,
	ingredientRepo repository.IngredientRepository,
	markRepo repository.MarkRepository,
	subRepo repository.SubscriptionRepository,
	cache *cache.Client,
	mediaDir string,
	shortLinkHost string,
) RecipeService {
	return &recipeService{
		recipeRepo:     recipeRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		markRepo:       markRepo,
		subRepo:        subRepo,
		cache:          cache,
		mediaDir:       mediaDir,
		shortLinkHost:  shortLinkHost,
	}
}

func (s *recipeService) cacheKey(id uint) string {
	return fmt.Sprintf("recipe:%d", id)
}

func (s *recipeService) CreateRecipe(ctx context.Context, authorID uint, input RecipeInput) (*RecipeView, error) {
	tags, ingredients, err := s.validateAssociations(ctx, input)
	if err != nil {
		return nil, err
	}
	if input.Image == "" {
		return nil, apperrors.NewValidationError("image must not be empty")
	}
	imagePath, err := s.storeImage(input.Image)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		AuthorID:    authorID,
		Name:        input.Name,
		Text:        input.Text,
		Image:       imagePath,
		CookingTime: input.CookingTime,
		Tags:        tags,
		Ingredients: ingredients,
	}
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return s.GetRecipe(ctx, recipe.ID, authorID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id, callerID uint, input RecipeInput) (*RecipeView, error) {
	recipe, err := s.findRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != callerID {
		return nil, apperrors.ErrNotRecipeAuthor
	}

	tags, ingredients, err := s.validateAssociations(ctx, input)
	if err != nil {
		return nil, err
	}

	recipe.Name = input.Name
	recipe.Text = input.Text
	recipe.CookingTime = input.CookingTime
	if input.Image != "" {
		imagePath, err := s.storeImage(input.Image)
		if err != nil {
			return nil, err
		}
		recipe.Image = imagePath
	}

	if err := s.recipeRepo.Update(ctx, recipe, ingredients, tags); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return s.GetRecipe(ctx, id, callerID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id, callerID uint) error {
	recipe, err := s.findRecipe(ctx, id)
	if err != nil {
		return err
	}
	if recipe.AuthorID != callerID {
		return apperrors.ErrNotRecipeAuthor
	}
	if err := s.recipeRepo.Delete(ctx, recipe); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *recipeService) GetRecipe(ctx context.Context, id, viewerID uint) (*RecipeView, error) {
	recipe, err := s.findRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, recipe, viewerID)
}

func (s *recipeService) ListRecipes(ctx context.Context, filter repository.RecipeFilter) ([]RecipeView, error) {
	recipes, err := s.recipeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]RecipeView, 0, len(recipes))
	for i := range recipes {
		view, err := s.buildView(ctx, &recipes[i], filter.ViewerID)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *recipeService) ShortLink(ctx context.Context, id uint) (string, error) {
	recipe, err := s.findRecipe(ctx, id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%d", s.shortLinkHost, recipe.ID), nil
}

// findRecipe loads the full recipe, serving from cache when possible.
func (s *recipeService) findRecipe(ctx context.Context, id uint) (*model.Recipe, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Recipe
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	recipe, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecipeNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(recipe); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, recipeCacheTTL)
	}
	return recipe, nil
}

func (s *recipeService) buildView(ctx context.Context, recipe *model.Recipe, viewerID uint) (*RecipeView, error) {
	view := &RecipeView{Recipe: recipe}
	if viewerID == 0 {
		return view, nil
	}

	var err error
	if view.IsFavorited, err = s.markRepo.Exists(ctx, viewerID, recipe.ID, model.MarkFavorite); err != nil {
		return nil, err
	}
	if view.IsInShoppingCart, err = s.markRepo.Exists(ctx, viewerID, recipe.ID, model.MarkCart); err != nil {
		return nil, err
	}
	if viewerID != recipe.AuthorID {
		if view.AuthorSubscribed, err = s.subRepo.Exists(ctx, recipe.AuthorID, viewerID); err != nil {
			return nil, err
		}
	}
	return view, nil
}

func (s *recipeService) storeImage(dataURI string) (string, error) {
	path, err := images.DecodeAndStore(s.mediaDir, "recipes", dataURI)
	if err != nil {
		if errors.Is(err, images.ErrInvalidDataURI) {
			return "", apperrors.NewValidationError("image must be a base64 image data URI")
		}
		return "", fmt.Errorf("store image: %w", err)
	}
	return path, nil
}

// validateAssociations enforces the write contract on tags and ingredients:
// both lists non-empty, duplicate-free, every reference existing. It returns
// the resolved rows ready to attach to the recipe.
func (s *recipeService) validateAssociations(ctx context.Context, input RecipeInput) ([]model.Tag, []model.RecipeIngredient, error) {
	if len(input.Ingredients) == 0 {
		return nil, nil, apperrors.NewValidationError("add at least one ingredient")
	}
	if len(input.TagIDs) == 0 {
		return nil, nil, apperrors.NewValidationError("add at least one tag")
	}

	seenIngredients := make(map[uint]bool, len(input.Ingredients))
	ingredientIDs := make([]uint, 0, len(input.Ingredients))
	for _, item := range input.Ingredients {
		if item.Amount < 1 {
			return nil, nil, apperrors.NewValidationError("ingredient %d amount must be at least 1", item.IngredientID)
		}
		if seenIngredients[item.IngredientID] {
			return nil, nil, apperrors.NewValidationError("ingredient %d is listed twice", item.IngredientID)
		}
		seenIngredients[item.IngredientID] = true
		ingredientIDs = append(ingredientIDs, item.IngredientID)
	}

	seenTags := make(map[uint]bool, len(input.TagIDs))
	for _, id := range input.TagIDs {
		if seenTags[id] {
			return nil, nil, apperrors.NewValidationError("tag %d is listed twice", id)
		}
		seenTags[id] = true
	}

	found, err := s.ingredientRepo.FindByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uint]model.Ingredient, len(found))
	for _, ing := range found {
		byID[ing.ID] = ing
	}
	ingredients := make([]model.RecipeIngredient, 0, len(input.Ingredients))
	for _, item := range input.Ingredients {
		ing, ok := byID[item.IngredientID]
		if !ok {
			return nil, nil, apperrors.NewValidationError("ingredient %d does not exist", item.IngredientID)
		}
		ingredients = append(ingredients, model.RecipeIngredient{
			IngredientID: ing.ID,
			Amount:       item.Amount,
			Ingredient:   ing,
		})
	}

	tags, err := s.tagRepo.FindByIDs(ctx, input.TagIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(tags) != len(input.TagIDs) {
		tagByID := make(map[uint]bool, len(tags))
		for _, tag := range tags {
			tagByID[tag.ID] = true
		}
		for _, id := range input.TagIDs {
			if !tagByID[id] {
				return nil, nil, apperrors.NewValidationError("tag %d does not exist", id)
			}
		}
	}

	return tags, ingredients, nil
}
