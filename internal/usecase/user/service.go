package user

import (
	"context"
	"errors"
	"strings"

	"job-portal/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("user not found")
	ErrInternal     = errors.New("internal error")
)

type CompanyInput struct {
	Name     *string
	Industry *string
	About    *string
	Website  *string
}

// UpdateProfileInput carries optional changes; nil fields are left untouched.
type UpdateProfileInput struct {
	Name       *string
	Skills     *[]string
	Experience *string
	LinkedIn   *string
	Company    *CompanyInput
}

type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}
	return sanitizeUser(usr), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (user.User, error) {
	var upd user.ProfileUpdate

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return user.User{}, ErrInvalidInput
		}
		upd.Name = &name
	}
	if in.Skills != nil {
		skills := cleanSkills(*in.Skills)
		upd.Skills = &skills
	}
	upd.Experience = trimmed(in.Experience)
	upd.LinkedIn = trimmed(in.LinkedIn)
	if in.Company != nil {
		upd.CompanyName = trimmed(in.Company.Name)
		upd.CompanyIndustry = trimmed(in.Company.Industry)
		upd.CompanyAbout = trimmed(in.Company.About)
		upd.CompanyWebsite = trimmed(in.Company.Website)
	}

	updated, err := s.users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}
	return sanitizeUser(updated), nil
}

// cleanSkills trims entries and drops blanks and case-insensitive duplicates.
func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
