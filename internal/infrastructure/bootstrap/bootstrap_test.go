package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/securebase/auth-service/internal/core/domain"
)

type memRoleRepo struct {
	roles   map[domain.RoleName]*domain.Role
	findErr error
	created []domain.RoleName
}

func newMemRoleRepo() *memRoleRepo {
	return &memRoleRepo{roles: make(map[domain.RoleName]*domain.Role)}
}

func (r *memRoleRepo) FindByName(_ context.Context, name domain.RoleName) (*domain.Role, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	role, ok := r.roles[name]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return role, nil
}

func (r *memRoleRepo) Create(_ context.Context, role *domain.Role) error {
	r.roles[role.Name] = role
	r.created = append(r.created, role.Name)
	return nil
}

type memUserRepo struct {
	users    map[string]*domain.User
	countErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.users[user.Username] = user
	return user, nil
}

func (r *memUserRepo) Count(_ context.Context) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.users)), nil
}

func TestEnsureRoles_CreatesMissing(t *testing.T) {
	roles := newMemRoleRepo()

	if err := EnsureRoles(context.Background(), roles, zerolog.Nop()); err != nil {
		t.Fatalf("ensure roles failed: %v", err)
	}
	if len(roles.created) != len(domain.AllRoles()) {
		t.Fatalf("expected %d roles created, got %v", len(domain.AllRoles()), roles.created)
	}
	for i, name := range domain.AllRoles() {
		role, err := roles.FindByName(context.Background(), name)
		if err != nil {
			t.Fatalf("role %s missing after ensure: %v", name, err)
		}
		if role.ID != i+1 {
			t.Fatalf("role %s: expected id %d, got %d", name, i+1, role.ID)
		}
	}
}

func TestEnsureRoles_Idempotent(t *testing.T) {
	roles := newMemRoleRepo()
	if err := EnsureRoles(context.Background(), roles, zerolog.Nop()); err != nil {
		t.Fatalf("first ensure failed: %v", err)
	}
	created := len(roles.created)

	if err := EnsureRoles(context.Background(), roles, zerolog.Nop()); err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}
	if len(roles.created) != created {
		t.Fatalf("second ensure must not create roles, got %v", roles.created)
	}
}

func TestEnsureRoles_StorageErrorAborts(t *testing.T) {
	roles := newMemRoleRepo()
	roles.findErr = errors.New("mongo: timeout")

	if err := EnsureRoles(context.Background(), roles, zerolog.Nop()); err == nil {
		t.Fatalf("expected storage error to abort")
	}
}

func TestSeedDevUsers_EmptyStore(t *testing.T) {
	roles := newMemRoleRepo()
	if err := EnsureRoles(context.Background(), roles, zerolog.Nop()); err != nil {
		t.Fatalf("ensure roles failed: %v", err)
	}
	users := newMemUserRepo()

	if err := SeedDevUsers(context.Background(), users, roles, zerolog.Nop()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if len(users.users) != 3 {
		t.Fatalf("expected 3 seeded users, got %d", len(users.users))
	}

	admin, err := users.FindByUsername(context.Background(), "admin_user")
	if err != nil {
		t.Fatalf("admin_user not seeded: %v", err)
	}
	if len(admin.Roles) != 1 || admin.Roles[0].Name != domain.RoleAdmin {
		t.Fatalf("unexpected admin roles: %+v", admin.Roles)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("adminPass789")); err != nil {
		t.Fatalf("seeded password hash does not verify: %v", err)
	}
	if admin.CreatedAt.IsZero() || admin.UpdatedAt.IsZero() {
		t.Fatalf("seeded user timestamps not set: %+v", admin)
	}
}

func TestSeedDevUsers_SkipsPopulatedStore(t *testing.T) {
	roles := newMemRoleRepo()
	if err := EnsureRoles(context.Background(), roles, zerolog.Nop()); err != nil {
		t.Fatalf("ensure roles failed: %v", err)
	}
	users := newMemUserRepo()
	users.users["existing"] = &domain.User{Username: "existing"}

	if err := SeedDevUsers(context.Background(), users, roles, zerolog.Nop()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if len(users.users) != 1 {
		t.Fatalf("populated store must be left untouched, got %d users", len(users.users))
	}
}

func TestSeedDevUsers_MissingRoleAborts(t *testing.T) {
	users := newMemUserRepo()

	// No roles seeded: the first lookup fails and nothing is created.
	if err := SeedDevUsers(context.Background(), users, newMemRoleRepo(), zerolog.Nop()); err == nil {
		t.Fatalf("expected missing role to abort seeding")
	}
	if len(users.users) != 0 {
		t.Fatalf("expected no users created, got %d", len(users.users))
	}
}
