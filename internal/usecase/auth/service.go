package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"job-portal/internal/domain/user"
)

var (
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBanned      = errors.New("account is banned")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
)

const passwordCost = 10

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type LoginInput struct {
	Email    string
	Password string
}

type Service struct {
	users user.Repository
	now   func() time.Time
}

func NewService(users user.Repository) *Service {
	return &Service{users: users, now: time.Now}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	role, ok := user.ParseRole(in.Role)
	if !ok || !role.SelfRegistrable() {
		return user.User{}, ErrInvalidRole
	}

	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return user.User{}, ErrInvalidInput
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return user.User{}, ErrUserExists
	case !errors.Is(err, user.ErrNotFound):
		return user.User{}, ErrInternal
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return user.User{}, ErrInternal
	}

	now := s.now().UTC()
	u := user.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       user.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, ErrUserExists
		}
		return user.User{}, ErrInternal
	}
	return sanitizeUser(u), nil
}

// Login checks the credentials first so a wrong password never reveals
// whether the account is banned.
func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}
	if u.IsBanned() {
		return user.User{}, ErrAccountBanned
	}

	return sanitizeUser(u), nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
