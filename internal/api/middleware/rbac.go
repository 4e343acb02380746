package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/securebase/auth-service/internal/core/domain"
)

// RequireRoles declares the roles allowed to reach a route. A request without
// an authenticated principal is rejected as unauthenticated; a principal
// whose authorities do not intersect the required set is forbidden. Role
// names match exactly, with no hierarchy.
func RequireRoles(roles ...domain.RoleName) echo.MiddlewareFunc {
	required := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		required[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			for _, authority := range principal.Authorities {
				if _, allowed := required[authority]; allowed {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}
