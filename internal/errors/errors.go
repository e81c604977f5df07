package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthorized is returned when an endpoint needs an identity and none was presented.
	ErrUnauthorized = errors.New("user not authorized")
	// ErrInvalidCredentials is returned for an unknown username or a wrong secret alike.
	ErrInvalidCredentials = errors.New("username or password is incorrect")
	// ErrInvalidToken is returned when a bearer token fails verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidCarID is returned when a car identifier cannot be parsed.
	ErrInvalidCarID = errors.New("invalid car id")
	// ErrSecretTooLong is returned when a secret exceeds what bcrypt can hash.
	ErrSecretTooLong = errors.New("userKey must be at most 72 bytes")
)

// ErrorResponse is the single error envelope returned by every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
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

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unknown becomes a
// 500 carrying fallback as its message, so storage details never leak.
func MapErrorToHTTP(err error, fallback string) *HTTPError {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidToken.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrInvalidCarID):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidCarID.Error(), "INVALID_CAR_ID")
	case errors.Is(err, ErrSecretTooLong):
		return NewHTTPError(http.StatusBadRequest, ErrSecretTooLong.Error(), "INVALID_REQUEST")
	default:
		return NewHTTPError(http.StatusInternalServerError, fallback, "INTERNAL_ERROR")
	}
}
