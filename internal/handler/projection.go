package handler

import (
	"github.com/labstack/echo/v4"

	"foodgram/internal/auth"
	"foodgram/internal/model"
	"foodgram/internal/service"
)

// UserResponse is the public profile projection.
type UserResponse struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Avatar       string `json:"avatar"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// IngredientLineResponse is one ingredient of a recipe read projection.
type IngredientLineResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full recipe read projection with viewer flags.
type RecipeResponse struct {
	ID               uint                     `json:"id"`
	Tags             []model.Tag              `json:"tags"`
	Author           UserResponse             `json:"author"`
	Ingredients      []IngredientLineResponse `json:"ingredients"`
	IsFavorited      bool                     `json:"is_favorited"`
	IsInShoppingCart bool                     `json:"is_in_shopping_cart"`
	Name             string                   `json:"name"`
	Image            string                   `json:"image"`
	Text             string                   `json:"text"`
	CookingTime      int                      `json:"cooking_time"`
}

// ShortRecipeResponse is the short projection returned by mark actions.
type ShortRecipeResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// SubscriptionResponse is a followed user with their recipes.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []ShortRecipeResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

func newUserResponse(user *model.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Avatar:       user.Avatar,
		IsSubscribed: isSubscribed,
	}
}

func newRecipeResponse(view *service.RecipeView) RecipeResponse {
	recipe := view.Recipe
	ingredients := make([]IngredientLineResponse, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		ingredients = append(ingredients, IngredientLineResponse{
			ID:              line.Ingredient.ID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}
	tags := recipe.Tags
	if tags == nil {
		tags = []model.Tag{}
	}
	return RecipeResponse{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           newUserResponse(&recipe.Author, view.AuthorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      view.IsFavorited,
		IsInShoppingCart: view.IsInShoppingCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}

func newShortRecipeResponse(recipe *model.Recipe) ShortRecipeResponse {
	return ShortRecipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

func newSubscriptionResponse(view *service.SubscriptionView) SubscriptionResponse {
	recipes := make([]ShortRecipeResponse, 0, len(view.Recipes))
	for i := range view.Recipes {
		recipes = append(recipes, newShortRecipeResponse(&view.Recipes[i]))
	}
	return SubscriptionResponse{
		UserResponse: newUserResponse(view.User, true),
		Recipes:      recipes,
		RecipesCount: view.RecipesCount,
	}
}

// ViewerContextKey is where the optional-auth middleware stores the viewer ID.
const ViewerContextKey = "viewer_id"

// currentUserID resolves the requesting user from either the JWT middleware
// or the optional-auth middleware. 0 means anonymous.
func currentUserID(c echo.Context) uint {
	if claims, ok := c.Get("user").(*auth.Claims); ok {
		return claims.UserID
	}
	if id, ok := c.Get(ViewerContextKey).(uint); ok {
		return id
	}
	return 0
}
