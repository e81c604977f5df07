package router

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"carlot/internal/auth"
	"carlot/internal/config"
	"carlot/internal/db"
	"carlot/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	pool *db.Pool,
	tokens *auth.TokenService,
	tokenStore auth.TokenStoreInterface,
	carHandler *handler.CarHandler,
	authHandler *handler.AuthHandler,
	probeHandler *handler.ProbeHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", probeHandler.Healthz)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Every API request owns one configured db session for its lifetime,
	// then gets an identity if it presented a valid token.
	pipeline := []echo.MiddlewareFunc{
		pool.Middleware(),
		auth.OptionalMiddleware(tokens, tokenStore),
	}

	// Public routes
	e.GET("/test", probeHandler.Test, pipeline...)
	e.POST("/register", authHandler.Register, pipeline...)
	e.POST("/log-in", authHandler.Login, pipeline...)

	// Routes enforcing an identity in the handler
	e.POST("/log-out", authHandler.Logout, pipeline...)
	e.GET("/cars", carHandler.ListCars, pipeline...)
	e.POST("/car", carHandler.CreateCar, pipeline...)
	e.DELETE("/car/:id", carHandler.DeleteCar, pipeline...)
	e.PUT("/car", carHandler.UpdateCar, pipeline...)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
