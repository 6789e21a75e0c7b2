package auth

import (
	"context"
	"errors"
	"testing"

	"job-portal/internal/domain/user"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	user.Repository

	byEmail   map[string]user.User
	createErr error
	getErr    error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byEmail: map[string]user.User{}}
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	if m.getErr != nil {
		return user.User{}, m.getErr
	}
	u, ok := m.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) Create(_ context.Context, u user.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.byEmail[u.Email] = u
	return nil
}

func TestRegister_InvalidRole(t *testing.T) {
	svc := NewService(newMockUserRepo())
	for _, role := range []string{"", "admin", "recruiter"} {
		_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@x.io", Password: "pw", Role: role})
		if !errors.Is(err, ErrInvalidRole) {
			t.Fatalf("role %q: expected ErrInvalidRole, got %v", role, err)
		}
	}
}

func TestRegister_HashesAndNormalizes(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	u, err := svc.Register(context.Background(), RegisterInput{Name: " Ana ", Email: " Ana@Example.COM ", Password: "secret", Role: "candidate"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.PasswordHash != "" {
		t.Fatalf("expected sanitized user")
	}
	if u.Email != "ana@example.com" || u.Name != "Ana" {
		t.Fatalf("unexpected normalized fields: %q %q", u.Email, u.Name)
	}
	stored := repo.byEmail["ana@example.com"]
	if stored.PasswordHash == "" || stored.PasswordHash == "secret" {
		t.Fatalf("expected bcrypt hash to be stored")
	}
	if stored.Role != user.RoleCandidate || stored.Status != user.StatusActive {
		t.Fatalf("unexpected role/status: %s %s", stored.Role, stored.Status)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	repo := newMockUserRepo()
	repo.byEmail["dup@x.io"] = user.User{ID: uuid.New(), Email: "dup@x.io"}
	svc := NewService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "B", Email: "DUP@x.io", Password: "pw", Role: "employer"})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestRegister_RaceOnUniqueIndex(t *testing.T) {
	repo := newMockUserRepo()
	repo.createErr = user.ErrEmailTaken
	svc := NewService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "B", Email: "b@x.io", Password: "pw", Role: "employer"})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)
	if _, err := svc.Register(context.Background(), RegisterInput{Name: "C", Email: "c@x.io", Password: "right", Role: "candidate"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginInput{Email: "c@x.io", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginInput{Email: "nobody@x.io", Password: "right"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	u, err := svc.Login(context.Background(), LoginInput{Email: "C@X.io", Password: "right"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.Email != "c@x.io" || u.PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestLogin_Banned(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)
	if _, err := svc.Register(context.Background(), RegisterInput{Name: "D", Email: "d@x.io", Password: "pw", Role: "candidate"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	u := repo.byEmail["d@x.io"]
	u.Status = user.StatusBanned
	repo.byEmail["d@x.io"] = u

	if _, err := svc.Login(context.Background(), LoginInput{Email: "d@x.io", Password: "nope"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials before ban check, got %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginInput{Email: "d@x.io", Password: "pw"}); !errors.Is(err, ErrAccountBanned) {
		t.Fatalf("expected ErrAccountBanned, got %v", err)
	}
}

func TestLogin_RepoFailure(t *testing.T) {
	repo := newMockUserRepo()
	repo.getErr = errors.New("db down")
	if _, err := NewService(repo).Login(context.Background(), LoginInput{Email: "x@x.io", Password: "pw"}); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
