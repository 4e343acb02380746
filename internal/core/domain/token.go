package domain

import "errors"

// Token rejection reasons. Each is independently observable by the caller of
// TokenService.Verify; the HTTP layer collapses them all into an
// unauthenticated request and only logs and counts the specific reason.
var (
	ErrTokenEmpty            = errors.New("token is empty")
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	ErrTokenExpired          = errors.New("token is expired")
	ErrTokenUnsupported      = errors.New("token format or algorithm is unsupported")
)
