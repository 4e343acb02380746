package service

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

// AuthService implements sign-in and sign-up on top of the user and role
// repositories, the token codec, and the identity resolver.
type AuthService struct {
	users    ports.UserRepository
	roles    ports.RoleRepository
	tokens   ports.TokenService
	resolver ports.IdentityResolver
	throttle ports.LoginThrottle // optional
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	tokens ports.TokenService,
	resolver ports.IdentityResolver,
	throttle ports.LoginThrottle,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		roles:    roles,
		tokens:   tokens,
		resolver: resolver,
		throttle: throttle,
		log:      log,
	}
}

// SignIn checks the credentials and, on success, issues a token and resolves
// the identity view for the response payload. Unknown-user and wrong-password
// both answer ErrInvalidCredentials so usernames cannot be enumerated.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (*ports.SignInResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if !s.admitted(ctx, username) {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, username)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	identity, err := s.resolver.Resolve(ctx, user.Username)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Msg("login throttle reset failed")
		}
	}

	return &ports.SignInResult{Token: token, Identity: identity}, nil
}

// SignUp registers a new account. Role hints are mapped to canonical role
// names and resolved against the seeded role table; absent or unrecognised
// hints default to the plain user role.
func (s *AuthService) SignUp(ctx context.Context, input ports.SignUpInput) error {
	taken, err := s.users.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if taken {
		return domain.ErrUsernameTaken
	}

	inUse, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if inUse {
		return domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	roles, err := s.mapRoles(ctx, input.Roles)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		return err
	}

	s.log.Info().
		Str("username", user.Username).
		Str("email", user.Email).
		Strs("roles", user.Authorities()).
		Msg("user registered")
	return nil
}

// mapRoles converts role hints into seeded roles, deduplicating hints that
// collapse to the same role name. The roles are verified at startup, so a
// miss here is a storage integrity fault, not a client error.
func (s *AuthService) mapRoles(ctx context.Context, hints []string) ([]domain.Role, error) {
	names := make([]domain.RoleName, 0, 1)
	if len(hints) == 0 {
		names = append(names, domain.RoleUser)
	} else {
		seen := make(map[domain.RoleName]struct{}, len(hints))
		for _, hint := range hints {
			name := domain.RoleFromHint(hint)
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	roles := make([]domain.Role, 0, len(names))
	for _, name := range names {
		role, err := s.roles.FindByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("find role %s: %w", name, err)
		}
		roles = append(roles, *role)
	}
	return roles, nil
}

func (s *AuthService) admitted(ctx context.Context, username string) bool {
	if s.throttle == nil {
		return true
	}
	ok, err := s.throttle.Allow(ctx, username)
	if err != nil {
		// Throttle storage trouble must not lock everyone out.
		s.log.Warn().Err(err).Msg("login throttle check failed")
		return true
	}
	if !ok {
		s.log.Warn().Str("username", username).Msg("sign-in throttled")
	}
	return ok
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Msg("login throttle record failed")
	}
}
