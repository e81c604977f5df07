package auth

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "carlot/internal/errors"
)

const claimsContextKey = "claims"

// OptionalMiddleware verifies the Authorization header when present and
// attaches the resulting Identity to the request context. It never rejects
// a request: missing, malformed, expired, tampered or revoked tokens simply
// leave the request without an identity.
func OptionalMiddleware(tokens *TokenService, store TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization,
		ContextKey:  claimsContextKey,
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			claims, err := tokens.Verify(raw)
			if err != nil {
				return nil, err
			}
			req := c.Request()
			if claims.ID != "" && store != nil {
				if revoked, _ := store.IsRevoked(req.Context(), claims.ID); revoked {
					return nil, apperrors.ErrInvalidToken
				}
			}
			c.SetRequest(req.WithContext(WithIdentity(req.Context(), claims.Identity())))
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
		ContinueOnIgnoredError: true,
	})
}

// ClaimsFrom returns the verified claims stored by OptionalMiddleware.
func ClaimsFrom(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	return claims, ok
}
