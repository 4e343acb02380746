package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/securebase/auth-service/internal/core/domain"
)

// errorResponse is the canonical error envelope for non-authentication errors.
type errorResponse struct {
	Error string `json:"error"`
}

// unauthorizedResponse is the structured 401 body. This is the single place
// its shape is defined; the message carries only the authentication error's
// text, never internal detail.
type unauthorizedResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders every unauthenticated outcome as the structured 401 body.
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		switch {
		case errors.Is(err, domain.ErrUnauthenticated):
			unauthorized(c, "Full authentication is required to access this resource")
			return
		case errors.Is(err, domain.ErrInvalidCredentials):
			unauthorized(c, "Bad credentials")
			return
		case errors.Is(err, domain.ErrForbidden):
			_ = c.JSON(http.StatusForbidden, errorResponse{Error: "access forbidden"})
			return
		}

		// Echo's own errors (bind failures, 404 from router, etc.)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Code == http.StatusUnauthorized {
				unauthorized(c, fmt.Sprintf("%v", he.Message))
				return
			}
			_ = c.JSON(he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)})
			return
		}

		// Unexpected error: log the real cause, return a generic message.
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("unhandled error")
		_ = c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func unauthorized(c echo.Context, message string) {
	_ = c.JSON(http.StatusUnauthorized, unauthorizedResponse{
		Status:  http.StatusUnauthorized,
		Error:   "Unauthorized",
		Message: message,
		Path:    c.Request().URL.Path,
	})
}
