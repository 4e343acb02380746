package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/securebase/auth-service/internal/api/metrics"
	"github.com/securebase/auth-service/internal/core/domain"
	"github.com/securebase/auth-service/internal/core/ports"
)

// principalKey is the echo context key the authenticated principal is stored
// under. The echo context is per-request, so concurrent requests never see
// each other's principal.
const principalKey = "auth.principal"

const bearerPrefix = "Bearer "

// Authenticate runs once per request: it extracts the bearer token, verifies
// it, re-resolves the subject's identity, and attaches the result to the
// request context. Every failure mode leaves the request unauthenticated and
// lets it continue; rejection is the authorization gate's job. Token
// rejection reasons are logged and counted but never reach the client.
func Authenticate(tokens ports.TokenService, resolver ports.IdentityResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := extractToken(c.Request())
			if !ok {
				return next(c)
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				reason := rejectionReason(err)
				metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
				log.Debug().
					Str("reason", reason).
					Str("path", c.Request().URL.Path).
					Msg("bearer token rejected")
				return next(c)
			}

			identity, err := resolver.Resolve(c.Request().Context(), claims.Subject)
			if err != nil {
				metrics.IdentityResolutionsTotal.WithLabelValues("miss").Inc()
				if errors.Is(err, domain.ErrUserNotFound) {
					// Token outlived its account; treat as unauthenticated.
					log.Debug().Str("subject", claims.Subject).Msg("token subject no longer exists")
				} else {
					log.Error().Err(err).Msg("identity resolution failed")
				}
				return next(c)
			}
			metrics.IdentityResolutionsTotal.WithLabelValues("hit").Inc()

			SetPrincipal(c, identity)
			return next(c)
		}
	}
}

// extractToken reads the bearer token from the Authorization header. The
// scheme prefix is matched exactly, case-sensitively, with a single space.
// Anything else means "no token", which is absence rather than an error.
func extractToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	return header[len(bearerPrefix):], true
}

// SetPrincipal attaches the resolved identity to the request scope.
func SetPrincipal(c echo.Context, identity *ports.IdentityView) {
	c.Set(principalKey, identity)
}

// PrincipalFrom returns the identity attached by Authenticate, if any.
func PrincipalFrom(c echo.Context) (*ports.IdentityView, bool) {
	identity, ok := c.Get(principalKey).(*ports.IdentityView)
	return identity, ok && identity != nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenEmpty):
		return "empty"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignatureInvalid):
		return "bad_signature"
	case errors.Is(err, domain.ErrTokenUnsupported):
		return "unsupported"
	default:
		return "malformed"
	}
}
