package domain

import (
	"errors"
	"time"
)

// RoleName identifies one of the fixed, flat set of roles. The string form is
// the authority granted to a signed-in user holding the role.
type RoleName string

const (
	RoleUser      RoleName = "ROLE_USER"
	RoleModerator RoleName = "ROLE_MODERATOR"
	RoleAdmin     RoleName = "ROLE_ADMIN"
)

// AllRoles returns every role the system knows about. The set is closed: the
// roles collection is seeded once at startup and never grows at runtime.
func AllRoles() []RoleName {
	return []RoleName{RoleUser, RoleModerator, RoleAdmin}
}

// RoleFromHint maps the short role names accepted at signup to canonical role
// names. Unknown hints (and the empty hint) fall back to the plain user role.
func RoleFromHint(hint string) RoleName {
	switch hint {
	case "admin":
		return RoleAdmin
	case "mod":
		return RoleModerator
	default:
		return RoleUser
	}
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUsernameTaken = errors.New("username is already taken")
var ErrEmailTaken = errors.New("email is already in use")
var ErrRoleNotFound = errors.New("role not found")
var ErrUnauthenticated = errors.New("full authentication required")
var ErrForbidden = errors.New("access forbidden")

// Role pairs a surrogate storage id with the canonical role name. The name is
// the semantic identity; the id only exists for persistence.
type Role struct {
	ID   int      `json:"id" bson:"id"`
	Name RoleName `json:"name" bson:"name"`
}

// User models a registered account. The password hash never leaves the
// process boundary.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Authorities flattens the user's role set into authority strings.
func (u *User) Authorities() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, string(r.Name))
	}
	return out
}
