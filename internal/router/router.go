package router

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"foodgram/internal/auth"
	"foodgram/internal/config"
	"foodgram/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	tagHandler *handler.TagHandler,
	ingredientHandler *handler.IngredientHandler,
	recipeHandler *handler.RecipeHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/media", cfg.MediaDir)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Read routes: open to anonymous callers, but a valid bearer token makes
	// the viewer-relative flags (is_subscribed, is_favorited, ...) real.
	reads := api.Group("", optionalAuth(jwtService))
	reads.GET("/tags", tagHandler.ListTags)
	reads.GET("/tags/:id", tagHandler.GetTag)
	reads.GET("/ingredients", ingredientHandler.ListIngredients)
	reads.GET("/ingredients/:id", ingredientHandler.GetIngredient)
	reads.GET("/recipes", recipeHandler.ListRecipes)
	reads.GET("/recipes/:id", recipeHandler.GetRecipe)
	reads.GET("/recipes/:id/get-link", recipeHandler.GetLink)
	reads.GET("/users", userHandler.ListUsers)
	reads.GET("/users/:id", userHandler.GetUser)

	// Secured routes (require JWT authentication). ParseTokenFunc delegates
	// to our JWTService so c.Get("user") holds *auth.Claims.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return jwtService.ValidateToken(tokenString)
		},
	}))

	// The "me" endpoints are reads that still require authentication.
	secured.GET("/users/me", userHandler.Me)
	secured.PUT("/users/me/avatar", userHandler.UpdateAvatar)
	secured.DELETE("/users/me/avatar", userHandler.DeleteAvatar)

	secured.GET("/users/subscriptions", userHandler.Subscriptions)
	secured.POST("/users/:id/subscribe", userHandler.Subscribe)
	secured.DELETE("/users/:id/subscribe", userHandler.Unsubscribe)

	secured.POST("/recipes", recipeHandler.CreateRecipe)
	secured.PATCH("/recipes/:id", recipeHandler.UpdateRecipe)
	secured.DELETE("/recipes/:id", recipeHandler.DeleteRecipe)
	secured.POST("/recipes/:id/favorite", recipeHandler.AddFavorite)
	secured.DELETE("/recipes/:id/favorite", recipeHandler.RemoveFavorite)
	secured.POST("/recipes/:id/shopping_cart", recipeHandler.AddToCart)
	secured.DELETE("/recipes/:id/shopping_cart", recipeHandler.RemoveFromCart)
	secured.GET("/recipes/download_shopping_cart", recipeHandler.DownloadShoppingCart)
}

// optionalAuth resolves the viewer from a bearer token when one is present
// and valid; anonymous requests pass through untouched.
func optionalAuth(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if strings.HasPrefix(header, "Bearer ") {
				if claims, err := jwtService.ValidateToken(strings.TrimPrefix(header, "Bearer ")); err == nil {
					c.Set(handler.ViewerContextKey, claims.UserID)
				}
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
