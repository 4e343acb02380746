package service

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/securebase/auth-service/internal/core/domain"
	"github.com/securebase/auth-service/internal/core/ports"
)

// TokenService issues and verifies HS256-signed JWTs. The key and TTL are
// fixed at construction and shared read-only by all concurrent requests.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
}

// NewTokenService creates a TokenService. expirationMs is the token lifetime
// in milliseconds; a non-positive value falls back to 24 hours.
func NewTokenService(secret string, expirationMs int) *TokenService {
	ttl := time.Duration(expirationMs) * time.Millisecond
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(jwt.WithExpirationRequired()),
	}
}

// Issue builds a token with subject, issue time, and expiry derived from the
// configured TTL, and signs it with the shared key.
func (s *TokenService) Issue(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks the signature and freshness of a token and returns its claims.
// The signature is validated before any claim is read. Failures map onto the
// domain token errors; callers must not forward the specific reason to clients.
func (s *TokenService) Verify(token string) (*ports.Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrTokenEmpty
	}

	// The parser decodes segments leniently: the final base64url character of
	// an HS256 signature carries two unused trailing bits, so a token mutated
	// only in those bits decodes to the same signature bytes and would verify.
	// Require the presented signature segment to be the canonical encoding.
	if parts := strings.Split(token, "."); len(parts) == 3 && !canonicalSegment(parts[2]) {
		return nil, domain.ErrTokenSignatureInvalid
	}

	parsed, err := s.parser.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, domain.ErrTokenUnsupported
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, mapTokenError(err)
	}

	rc, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || rc.ExpiresAt == nil {
		return nil, domain.ErrTokenMalformed
	}

	claims := &ports.Claims{
		Subject:   rc.Subject,
		ExpiresAt: rc.ExpiresAt.Time,
	}
	if rc.IssuedAt != nil {
		claims.IssuedAt = rc.IssuedAt.Time
	}
	return claims, nil
}

// canonicalSegment reports whether seg re-encodes to itself, i.e. is the one
// canonical base64url encoding of its decoded bytes. The empty segment of an
// unsigned token is canonical; the algorithm check rejects those later.
func canonicalSegment(seg string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(seg)
	if err != nil {
		return false
	}
	return base64.RawURLEncoding.EncodeToString(raw) == seg
}

// mapTokenError collapses golang-jwt parse errors onto the domain taxonomy.
// An expired token with a valid signature reports expiry, never a signature
// failure: the library verifies the signature before validating claims.
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, domain.ErrTokenUnsupported):
		return domain.ErrTokenUnsupported
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domain.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenUnsupported
	default:
		return domain.ErrTokenMalformed
	}
}
