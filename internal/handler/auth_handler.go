package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"carlot/internal/auth"
	apperrors "carlot/internal/errors"
	"carlot/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CredentialsRequest is the body of register and log-in requests.
type CredentialsRequest struct {
	UserName string `json:"userName" validate:"required,max=255"`
	UserKey  string `json:"userKey" validate:"required,max=72"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	token, err := h.authService.Register(c.Request().Context(), req.UserName, req.UserKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrSecretTooLong) {
			return httpError(err, "")
		}
		c.Logger().Errorf("register %q: %v", req.UserName, err)
		return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
			Error: "Server failed to register new user.",
			Code:  "REGISTRATION_FAILED",
		}).SetInternal(err)
	}

	return c.JSON(http.StatusOK, TokenResponse{JWT: token, Success: true})
}

// Login godoc
// @Summary Log in with username and secret
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /log-in [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	token, err := h.authService.Login(c.Request().Context(), req.UserName, req.UserKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return httpError(err, "")
		}
		c.Logger().Errorf("log in %q: %v", req.UserName, err)
		return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
			Error: "Server failed to log in user.",
			Code:  "LOGIN_FAILED",
		}).SetInternal(err)
	}

	return c.JSON(http.StatusOK, TokenResponse{JWT: token, Success: true})
}

// Logout godoc
// @Summary Revoke the presented token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /log-out [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := requireIdentity(c); err != nil {
		return err
	}
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return httpError(apperrors.ErrInvalidToken, "")
	}

	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		c.Logger().Errorf("log out: %v", err)
		return httpError(err, "Server failed to log out user.")
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Successfully logged out.",
	})
}
