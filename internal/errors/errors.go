package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrTagNotFound is returned when a tag is not found.
	ErrTagNotFound = errors.New("tag not found")
	// ErrIngredientNotFound is returned when an ingredient is not found.
	ErrIngredientNotFound = errors.New("ingredient not found")
	// ErrRecipeNotFound is returned when a recipe is not found.
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrNotRecipeAuthor is returned when a non-author tries to mutate a recipe.
	ErrNotRecipeAuthor = errors.New("only the author may modify this recipe")
	// ErrAlreadyMarked is returned on a duplicate favorite/cart add.
	ErrAlreadyMarked = errors.New("recipe is already marked")
	// ErrMarkNotFound is returned when removing an absent favorite/cart entry.
	ErrMarkNotFound = errors.New("recipe is not marked")
	// ErrSelfSubscription is returned when a user tries to follow themselves.
	ErrSelfSubscription = errors.New("cannot subscribe to yourself")
	// ErrAlreadySubscribed is returned on a duplicate subscribe.
	ErrAlreadySubscribed = errors.New("already subscribed")
	// ErrSubscriptionNotFound is returned when removing an absent subscription.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrUserExists is returned when registering a taken email or username.
	ErrUserExists = errors.New("user already exists")
)

// ValidationError carries a field-level message for malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return NewHTTPError(http.StatusBadRequest, validation.Message, "VALIDATION_ERROR")
	}

	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrTagNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TAG_NOT_FOUND")
	case errors.Is(err, ErrIngredientNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "INGREDIENT_NOT_FOUND")
	case errors.Is(err, ErrRecipeNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "RECIPE_NOT_FOUND")
	case errors.Is(err, ErrNotRecipeAuthor):
		return NewHTTPError(http.StatusForbidden, err.Error(), "NOT_RECIPE_AUTHOR")
	case errors.Is(err, ErrAlreadyMarked):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_MARKED")
	case errors.Is(err, ErrMarkNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "MARK_NOT_FOUND")
	case errors.Is(err, ErrSelfSubscription):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "SELF_SUBSCRIPTION")
	case errors.Is(err, ErrAlreadySubscribed):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_SUBSCRIBED")
	case errors.Is(err, ErrSubscriptionNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "SUBSCRIPTION_NOT_FOUND")
	case errors.Is(err, ErrUserExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_EXISTS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
