package service

import (
	"context"

	"github.com/securebase/auth-service/internal/core/ports"
)

// IdentityResolver loads a user by username and flattens its role set into
// authority strings. It runs once per authenticated request, so role changes
// take effect without re-login.
type IdentityResolver struct {
	users ports.UserRepository
}

func NewIdentityResolver(users ports.UserRepository) *IdentityResolver {
	return &IdentityResolver{users: users}
}

func (r *IdentityResolver) Resolve(ctx context.Context, username string) (*ports.IdentityView, error) {
	user, err := r.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return &ports.IdentityView{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Authorities: user.Authorities(),
	}, nil
}
