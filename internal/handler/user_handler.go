package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "foodgram/internal/errors"
	"foodgram/internal/service"
)

const defaultPageSize = 10

// UserHandler handles user profile, avatar and subscription endpoints.
type UserHandler struct {
	userService service.UserService
	subService  service.SubscriptionService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService, subService service.SubscriptionService) *UserHandler {
	return &UserHandler{userService: userService, subService: subService}
}

// AvatarRequest carries a base64 data-URI avatar payload.
type AvatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

// AvatarResponse returns the stored avatar path.
type AvatarResponse struct {
	Avatar string `json:"avatar"`
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {array} UserResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	offset, limit := pagination(c)
	views, err := h.userService.ListUsers(c.Request().Context(), offset, limit, currentUserID(c))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	resp := make([]UserResponse, 0, len(views))
	for _, view := range views {
		resp = append(resp, newUserResponse(view.User, view.IsSubscribed))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetUser godoc
// @Summary Get a user's public profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} UserResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	view, err := h.userService.GetUser(c.Request().Context(), uint(id), currentUserID(c))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, newUserResponse(view.User, view.IsSubscribed))
}

// Me godoc
// @Summary Get the current user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	userID := currentUserID(c)
	view, err := h.userService.GetUser(c.Request().Context(), userID, userID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, newUserResponse(view.User, view.IsSubscribed))
}

// UpdateAvatar godoc
// @Summary Set the current user's avatar
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param avatar body AvatarRequest true "Base64 data-URI avatar"
// @Success 200 {object} AvatarResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me/avatar [put]
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	var req AvatarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateAvatar(c.Request().Context(), currentUserID(c), req.Avatar)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, AvatarResponse{Avatar: user.Avatar})
}

// DeleteAvatar godoc
// @Summary Remove the current user's avatar
// @Tags users
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me/avatar [delete]
func (h *UserHandler) DeleteAvatar(c echo.Context) error {
	if err := h.userService.DeleteAvatar(c.Request().Context(), currentUserID(c)); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// Subscribe godoc
// @Summary Follow a user
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID to follow"
// @Success 201 {object} SubscriptionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/{id}/subscribe [post]
func (h *UserHandler) Subscribe(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	view, err := h.subService.Subscribe(c.Request().Context(), uint(id), currentUserID(c))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, newSubscriptionResponse(view))
}

// Unsubscribe godoc
// @Summary Unfollow a user
// @Tags subscriptions
// @Security BearerAuth
// @Param id path int true "User ID to unfollow"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/subscribe [delete]
func (h *UserHandler) Unsubscribe(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.subService.Unsubscribe(c.Request().Context(), uint(id), currentUserID(c)); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// Subscriptions godoc
// @Summary List followed users with their recipes
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param recipes_limit query int false "Cap on recipes per user"
// @Success 200 {array} SubscriptionResponse
// @Router /users/subscriptions [get]
func (h *UserHandler) Subscriptions(c echo.Context) error {
	recipesLimit := 0
	if raw := c.QueryParam("recipes_limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid recipes_limit")
		}
		recipesLimit = parsed
	}

	views, err := h.subService.ListSubscriptions(c.Request().Context(), currentUserID(c), recipesLimit)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	resp := make([]SubscriptionResponse, 0, len(views))
	for i := range views {
		resp = append(resp, newSubscriptionResponse(&views[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// pagination reads page/limit query parameters with defaults.
func pagination(c echo.Context) (offset, limit int) {
	limit = defaultPageSize
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return (page - 1) * limit, limit
}
