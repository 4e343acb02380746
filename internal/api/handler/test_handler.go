package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// TestHandler serves the role-gated demo content routes. The role
// requirements themselves are declared at route registration.
type TestHandler struct{}

func NewTestHandler() *TestHandler {
	return &TestHandler{}
}

// All handles GET /api/test/all — no authentication required.
//
// @Summary      Get public content
// @Tags         test
// @Success      200  {string}  string
// @Router       /api/test/all [get]
func (h *TestHandler) All(c echo.Context) error {
	return c.String(http.StatusOK, "Public Content.")
}

// User handles GET /api/test/user — any authenticated role.
//
// @Summary      Get user content
// @Tags         test
// @Security     BearerAuth
// @Success      200  {string}  string
// @Failure      401  {object}  map[string]any
// @Failure      403  {object}  map[string]string
// @Router       /api/test/user [get]
func (h *TestHandler) User(c echo.Context) error {
	return c.String(http.StatusOK, "User Content.")
}

// Mod handles GET /api/test/mod — moderators only.
//
// @Summary      Get moderator content
// @Tags         test
// @Security     BearerAuth
// @Success      200  {string}  string
// @Failure      401  {object}  map[string]any
// @Failure      403  {object}  map[string]string
// @Router       /api/test/mod [get]
func (h *TestHandler) Mod(c echo.Context) error {
	return c.String(http.StatusOK, "Moderator Board.")
}

// Admin handles GET /api/test/admin — admins only.
//
// @Summary      Get admin content
// @Tags         test
// @Security     BearerAuth
// @Success      200  {string}  string
// @Failure      401  {object}  map[string]any
// @Failure      403  {object}  map[string]string
// @Router       /api/test/admin [get]
func (h *TestHandler) Admin(c echo.Context) error {
	return c.String(http.StatusOK, "Admin Board.")
}
