package ports

import (
	"context"

	"github.com/securebase/auth-service/internal/core/domain"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
}

// RoleRepository defines the interface for the seeded role table.
type RoleRepository interface {
	FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
	Create(ctx context.Context, role *domain.Role) error
}

// LoginThrottle limits repeated failed sign-in attempts per username.
type LoginThrottle interface {
	// Allow reports whether another attempt for this username is admitted.
	Allow(ctx context.Context, username string) (bool, error)
	// RecordFailure counts one failed attempt against the username.
	RecordFailure(ctx context.Context, username string) error
	// Reset clears the failure count after a successful sign-in.
	Reset(ctx context.Context, username string) error
}
