package user

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive Status = "active"
	StatusBanned Status = "banned"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Status       Status

	Profile CandidateProfile
	Company Company

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) IsBanned() bool {
	return u.Status == StatusBanned
}

// CandidateProfile holds the candidate-only fields. ResumeURL and ResumeData
// mirror the active resume and are written only by the resume repository.
type CandidateProfile struct {
	Skills     []string
	Experience string
	ResumeURL  *string
	LinkedIn   string
	ResumeData *ResumeSnapshot
}

// ResumeSnapshot is the copy of an active generated resume kept on the profile.
type ResumeSnapshot struct {
	ID          uuid.UUID       `json:"id"`
	Template    string          `json:"template"`
	Content     string          `json:"content"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Data        json.RawMessage `json:"data,omitempty"`
}

type Company struct {
	Name     string
	Industry string
	About    string
	Website  string
}

// ProfileUpdate carries optional profile changes; nil fields are left as is.
// The resume mirror is written only by resume operations.
type ProfileUpdate struct {
	Name       *string
	Skills     *[]string
	Experience *string
	LinkedIn   *string

	CompanyName     *string
	CompanyIndustry *string
	CompanyAbout    *string
	CompanyWebsite  *string
}

type ListFilter struct {
	Role   Role
	Status Status
	// AnySkills matches users whose skill list shares at least one entry.
	AnySkills []string
	Limit     int
}
