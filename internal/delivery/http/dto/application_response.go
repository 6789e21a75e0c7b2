package dto

import (
	"time"

	"job-portal/internal/domain/application"
	"job-portal/internal/usecase"

	"github.com/google/uuid"
)

type ApplicationJob struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	EmployerID  uuid.UUID `json:"employerId"`
	CompanyName string    `json:"companyName,omitempty"`
}

type ApplicationCandidate struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name,omitempty"`
	Email      string    `json:"email,omitempty"`
	Skills     []string  `json:"skills,omitempty"`
	Experience string    `json:"experience,omitempty"`
}

type ApplicationResponse struct {
	ID           uuid.UUID            `json:"id"`
	Status       application.Status   `json:"status"`
	ResumeURL    string               `json:"resumeUrl"`
	MatchPercent int                  `json:"matchPercent"`
	Job          ApplicationJob       `json:"job"`
	Candidate    ApplicationCandidate `json:"candidate"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// CandidateApplicationResponse adds the match against the candidate's
// current skills next to the one frozen at apply time.
type CandidateApplicationResponse struct {
	ApplicationResponse
	CurrentMatch int `json:"currentMatch"`
}

func NewApplicationResponse(a application.Application) ApplicationResponse {
	company := a.CompanyName
	if company == "" {
		company = a.EmployerName
	}
	return ApplicationResponse{
		ID:           a.ID,
		Status:       a.Status,
		ResumeURL:    a.ResumeURL,
		MatchPercent: a.MatchPercent,
		Job: ApplicationJob{
			ID:          a.JobID,
			Title:       a.JobTitle,
			EmployerID:  a.JobEmployerID,
			CompanyName: company,
		},
		Candidate: ApplicationCandidate{
			ID:         a.CandidateID,
			Name:       a.CandidateName,
			Email:      a.CandidateEmail,
			Skills:     a.CandidateSkills,
			Experience: a.CandidateExp,
		},
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func NewApplicationResponses(items []application.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, NewApplicationResponse(a))
	}
	return out
}

func NewCandidateApplicationResponses(items []usecase.CandidateApplication) []CandidateApplicationResponse {
	out := make([]CandidateApplicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, CandidateApplicationResponse{
			ApplicationResponse: NewApplicationResponse(a.Application),
			CurrentMatch:        a.CurrentMatch,
		})
	}
	return out
}
