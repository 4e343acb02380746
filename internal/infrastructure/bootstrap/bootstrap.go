// Package bootstrap performs startup integrity checks and data seeding before
// the HTTP server accepts traffic.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/securebase/auth-service/internal/core/domain"
	"github.com/securebase/auth-service/internal/core/ports"
)

// EnsureRoles guarantees every role in the closed set exists before the
// service starts. Missing roles are created with stable surrogate ids; a
// storage failure here aborts startup rather than surfacing per request.
func EnsureRoles(ctx context.Context, roles ports.RoleRepository, log zerolog.Logger) error {
	for i, name := range domain.AllRoles() {
		_, err := roles.FindByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrRoleNotFound) {
			return fmt.Errorf("verify role %s: %w", name, err)
		}

		role := &domain.Role{ID: i + 1, Name: name}
		if err := roles.Create(ctx, role); err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
		log.Info().Str("role", string(name)).Msg("seeded missing role")
	}
	return nil
}

type seedUser struct {
	username string
	email    string
	password string
	role     domain.RoleName
}

var devUsers = []seedUser{
	{username: "john_doe", email: "john.doe@example.com", password: "password123", role: domain.RoleUser},
	{username: "jane_smith", email: "jane.smith@example.com", password: "securePass456", role: domain.RoleModerator},
	{username: "admin_user", email: "admin@example.com", password: "adminPass789", role: domain.RoleAdmin},
}

// SeedDevUsers creates a demo account per role when the users collection is
// empty. Development profile only; a populated collection is left untouched.
func SeedDevUsers(ctx context.Context, users ports.UserRepository, roles ports.RoleRepository, log zerolog.Logger) error {
	n, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		log.Info().Int64("users", n).Msg("users already present, skipping dev seed")
		return nil
	}

	for _, su := range devUsers {
		role, err := roles.FindByName(ctx, su.role)
		if err != nil {
			return fmt.Errorf("find role %s: %w", su.role, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}

		now := time.Now().UTC()
		user := &domain.User{
			Username:     su.username,
			Email:        su.email,
			PasswordHash: string(hash),
			Roles:        []domain.Role{*role},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("seed user %s: %w", su.username, err)
		}
		log.Info().
			Str("username", su.username).
			Str("role", string(su.role)).
			Msg("seeded dev user")
	}
	return nil
}
