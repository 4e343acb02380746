package ports

import (
	"context"
	"time"
)

// Claims are the verified fields carried by a token. They are only handed out
// after the signature has been checked.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies signed bearer tokens.
type TokenService interface {
	Issue(username string) (string, error)
	Verify(token string) (*Claims, error)
}

// IdentityView is the externally safe projection of a user: no password hash,
// roles flattened to authority strings.
type IdentityView struct {
	ID          string
	Username    string
	Email       string
	Authorities []string
}

// IdentityResolver maps a verified username to its current identity and
// authorities. It is consulted on every authenticated request so role changes
// take effect without re-login.
type IdentityResolver interface {
	Resolve(ctx context.Context, username string) (*IdentityView, error)
}

// SignInResult is what a successful credential check produces.
type SignInResult struct {
	Token    string
	Identity *IdentityView
}

// SignUpInput carries a validated registration request. Roles holds the short
// role hints from the request body ("admin", "mod", ...), possibly empty.
type SignUpInput struct {
	Username string
	Email    string
	Password string
	Roles    []string
}

// AuthService implements sign-in and sign-up.
type AuthService interface {
	SignIn(ctx context.Context, username, password string) (*SignInResult, error)
	SignUp(ctx context.Context, input SignUpInput) error
}
