package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"carlot/internal/auth"
	apperrors "carlot/internal/errors"
)

// SuccessResponse is the envelope returned by mutating endpoints.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	JWT     string `json:"jwt"`
	Success bool   `json:"success"`
}

// httpError maps err onto the shared error envelope; unknown errors become a
// 500 with fallback as the message.
func httpError(err error, fallback string) *echo.HTTPError {
	mapped := apperrors.MapErrorToHTTP(err, fallback)
	return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse()).SetInternal(err)
}

func badRequest(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: message,
		Code:  "INVALID_REQUEST",
	})
}

// requireIdentity rejects requests that carry no verified token.
func requireIdentity(c echo.Context) (auth.Identity, error) {
	id, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return auth.Identity{}, httpError(apperrors.ErrUnauthorized, "")
	}
	return id, nil
}
