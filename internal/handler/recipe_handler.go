package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "foodgram/internal/errors"
	"foodgram/internal/model"
	"foodgram/internal/repository"
	"foodgram/internal/service"
)

// RecipeHandler handles recipe CRUD and the nested recipe actions.
type RecipeHandler struct {
	recipeService service.RecipeService
	markService   service.MarkService
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(recipeService service.RecipeService, markService service.MarkService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService, markService: markService}
}

// RecipeIngredientRequest is one {ingredient id, amount} pair of the write projection.
type RecipeIngredientRequest struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"required,min=1"`
}

// RecipeRequest is the flat write projection of a recipe.
type RecipeRequest struct {
	Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []uint                    `json:"tags" validate:"required,min=1"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name" validate:"required,max=100"`
	Text        string                    `json:"text" validate:"required"`
	CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
}

// ShortLinkResponse carries the deterministic short link of a recipe.
type ShortLinkResponse struct {
	ShortLink string `json:"short-link"`
}

func (r *RecipeRequest) toInput() service.RecipeInput {
	ingredients := make([]service.IngredientAmount, 0, len(r.Ingredients))
	for _, item := range r.Ingredients {
		ingredients = append(ingredients, service.IngredientAmount{
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	return service.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		TagIDs:      r.Tags,
		Ingredients: ingredients,
	}
}

// ListRecipes godoc
// @Summary List recipes
// @Tags recipes
// @Produce json
// @Param author query int false "Author ID"
// @Param tags query []string false "Tag slugs"
// @Param is_favorited query int false "Only the viewer's favorites (1)"
// @Param is_in_shopping_cart query int false "Only the viewer's cart (1)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {array} RecipeResponse
// @Router /recipes [get]
func (h *RecipeHandler) ListRecipes(c echo.Context) error {
	offset, limit := pagination(c)
	filter := repository.RecipeFilter{
		ViewerID:  currentUserID(c),
		TagSlugs:  c.QueryParams()["tags"],
		Favorited: c.QueryParam("is_favorited") == "1",
		InCart:    c.QueryParam("is_in_shopping_cart") == "1",
		Offset:    offset,
		Limit:     limit,
	}
	if raw := c.QueryParam("author"); raw != "" {
		authorID, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid author")
		}
		filter.AuthorID = uint(authorID)
	}

	views, err := h.recipeService.ListRecipes(c.Request().Context(), filter)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	resp := make([]RecipeResponse, 0, len(views))
	for i := range views {
		resp = append(resp, newRecipeResponse(&views[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetRecipe godoc
// @Summary Get recipe by id
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} RecipeResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id} [get]
func (h *RecipeHandler) GetRecipe(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	view, err := h.recipeService.GetRecipe(c.Request().Context(), uint(id), currentUserID(c))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, newRecipeResponse(view))
}

// CreateRecipe godoc
// @Summary Create a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param recipe body RecipeRequest true "Recipe payload"
// @Success 201 {object} RecipeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /recipes [post]
func (h *RecipeHandler) CreateRecipe(c echo.Context) error {
	var req RecipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.recipeService.CreateRecipe(c.Request().Context(), currentUserID(c), req.toInput())
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, newRecipeResponse(view))
}

// UpdateRecipe godoc
// @Summary Update a recipe (author only)
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Param recipe body RecipeRequest true "Recipe payload"
// @Success 200 {object} RecipeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id} [patch]
func (h *RecipeHandler) UpdateRecipe(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req RecipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.recipeService.UpdateRecipe(c.Request().Context(), uint(id), currentUserID(c), req.toInput())
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, newRecipeResponse(view))
}

// DeleteRecipe godoc
// @Summary Delete a recipe (author only)
// @Tags recipes
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id} [delete]
func (h *RecipeHandler) DeleteRecipe(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.recipeService.DeleteRecipe(c.Request().Context(), uint(id), currentUserID(c)); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// GetLink godoc
// @Summary Get the deterministic short link of a recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} ShortLinkResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id}/get-link [get]
func (h *RecipeHandler) GetLink(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	link, err := h.recipeService.ShortLink(c.Request().Context(), uint(id))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, ShortLinkResponse{ShortLink: link})
}

// AddFavorite godoc
// @Summary Add a recipe to favorites
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 201 {object} ShortRecipeResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /recipes/{id}/favorite [post]
func (h *RecipeHandler) AddFavorite(c echo.Context) error {
	return h.addMark(c, model.MarkFavorite)
}

// RemoveFavorite godoc
// @Summary Remove a recipe from favorites
// @Tags recipes
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id}/favorite [delete]
func (h *RecipeHandler) RemoveFavorite(c echo.Context) error {
	return h.removeMark(c, model.MarkFavorite)
}

// AddToCart godoc
// @Summary Add a recipe to the shopping cart
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 201 {object} ShortRecipeResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /recipes/{id}/shopping_cart [post]
func (h *RecipeHandler) AddToCart(c echo.Context) error {
	return h.addMark(c, model.MarkCart)
}

// RemoveFromCart godoc
// @Summary Remove a recipe from the shopping cart
// @Tags recipes
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id}/shopping_cart [delete]
func (h *RecipeHandler) RemoveFromCart(c echo.Context) error {
	return h.removeMark(c, model.MarkCart)
}

// DownloadShoppingCart godoc
// @Summary Export the shopping cart as plain text
// @Tags recipes
// @Produce plain
// @Security BearerAuth
// @Success 200 {string} string
// @Router /recipes/download_shopping_cart [get]
func (h *RecipeHandler) DownloadShoppingCart(c echo.Context) error {
	list, err := h.markService.ShoppingList(c.Request().Context(), currentUserID(c))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="shopping_list.txt"`)
	return c.String(http.StatusOK, list)
}

func (h *RecipeHandler) addMark(c echo.Context, kind model.MarkKind) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	recipe, err := h.markService.AddMark(c.Request().Context(), currentUserID(c), uint(id), kind)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, newShortRecipeResponse(recipe))
}

func (h *RecipeHandler) removeMark(c echo.Context, kind model.MarkKind) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.markService.RemoveMark(c.Request().Context(), currentUserID(c), uint(id), kind); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}
