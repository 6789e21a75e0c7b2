package dto

import (
	"time"

	"job-portal/internal/domain/user"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	Skills     []string             `json:"skills"`
	Experience string               `json:"experience"`
	ResumeURL  *string              `json:"resumeUrl"`
	LinkedIn   string               `json:"linkedin"`
	ResumeData *user.ResumeSnapshot `json:"resumeData"`
}

type CompanyResponse struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	About    string `json:"about"`
	Website  string `json:"website"`
}

type UserResponse struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      user.Role        `json:"role"`
	Status    user.Status      `json:"status"`
	Profile   *ProfileResponse `json:"profile,omitempty"`
	Company   *CompanyResponse `json:"company,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// UserIdentity is the user block returned with a login token.
type UserIdentity struct {
	ID    uuid.UUID `json:"id"`
	Role  user.Role `json:"role"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserIdentity `json:"user"`
}

// NewUserResponse shows the candidate profile to candidates and the company
// block to employers.
func NewUserResponse(u user.User) UserResponse {
	out := UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
	switch u.Role {
	case user.RoleCandidate:
		skills := u.Profile.Skills
		if skills == nil {
			skills = []string{}
		}
		out.Profile = &ProfileResponse{
			Skills:     skills,
			Experience: u.Profile.Experience,
			ResumeURL:  u.Profile.ResumeURL,
			LinkedIn:   u.Profile.LinkedIn,
			ResumeData: u.Profile.ResumeData,
		}
	case user.RoleEmployer:
		out.Company = &CompanyResponse{
			Name:     u.Company.Name,
			Industry: u.Company.Industry,
			About:    u.Company.About,
			Website:  u.Company.Website,
		}
	}
	return out
}

func NewUserResponses(users []user.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
