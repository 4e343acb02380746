package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/securebase/auth-service/internal/api/metrics"
	"github.com/securebase/auth-service/internal/core/domain"
	"github.com/securebase/auth-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// SignIn authenticates a user and returns a JWT token.
//
// @Summary      Authenticate user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  jwtResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]any
// @Router       /api/auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.authService.SignIn(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.SigninsTotal.WithLabelValues("failure").Inc()
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			// Unexpected failures surface as a plain 401, never a 500 that
			// hints at internal state. Details stay in the log.
			h.log.Error().Err(err).Str("username", req.Username).Msg("sign-in failed unexpectedly")
		}
		return domain.ErrInvalidCredentials
	}

	metrics.SigninsTotal.WithLabelValues("success").Inc()
	h.log.Info().Str("username", result.Identity.Username).Msg("user signed in")

	return c.JSON(http.StatusOK, jwtResponse{
		Token:    result.Token,
		Type:     "Bearer",
		ID:       result.Identity.ID,
		Username: result.Identity.Username,
		Email:    result.Identity.Email,
		Roles:    result.Identity.Authorities,
	})
}

// SignUp registers a new user account.
//
// @Summary      Register new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "User registration details"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	err := h.authService.SignUp(c.Request().Context(), ports.SignUpInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Role,
	})
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Error: Username is already taken!"})
	case errors.Is(err, domain.ErrEmailTaken):
		metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Error: Email is already in use!"})
	case err != nil:
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.SignupsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "User registered successfully!"})
}
