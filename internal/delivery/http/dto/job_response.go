package dto

import (
	"time"

	"job-portal/internal/domain/job"
	"job-portal/internal/domain/matching"

	"github.com/google/uuid"
)

type EmployerSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email,omitempty"`
	CompanyName string    `json:"companyName,omitempty"`
}

type JobResponse struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Salary      string          `json:"salary"`
	Skills      []string        `json:"skills"`
	Type        job.Type        `json:"type"`
	Location    string          `json:"location"`
	Status      job.Status      `json:"status"`
	Employer    EmployerSummary `json:"employer"`
	Applicants  int             `json:"applicantCount"`

	Source             job.Source `json:"source"`
	LinkedInID         *string    `json:"linkedinId,omitempty"`
	Company            string     `json:"company,omitempty"`
	Requirements       []string   `json:"requirements,omitempty"`
	Benefits           []string   `json:"benefits,omitempty"`
	ApplicationURL     string     `json:"applicationUrl,omitempty"`
	PostedDate         *time.Time `json:"postedDate,omitempty"`
	PostedToCandidates bool       `json:"postedToCandidates"`
	PostedAt           *time.Time `json:"postedAt,omitempty"`
	CandidatesNotified int        `json:"candidatesNotified"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ScoredJobResponse struct {
	JobResponse
	Match int `json:"match"`
}

func NewJobResponse(j job.Job) JobResponse {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	return JobResponse{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		Salary:      j.Salary,
		Skills:      skills,
		Type:        j.Type,
		Location:    j.Location,
		Status:      j.Status,
		Employer: EmployerSummary{
			ID:          j.EmployerID,
			Name:        j.EmployerName,
			Email:       j.EmployerEmail,
			CompanyName: j.EmployerCompany,
		},
		Applicants:         j.ApplicantCount,
		Source:             j.Source,
		LinkedInID:         j.ExternalID,
		Company:            j.Company,
		Requirements:       j.Requirements,
		Benefits:           j.Benefits,
		ApplicationURL:     j.ApplicationURL,
		PostedDate:         j.PostedDate,
		PostedToCandidates: j.PostedToCandidates,
		PostedAt:           j.PostedAt,
		CandidatesNotified: j.CandidatesNotified,
		CreatedAt:          j.CreatedAt,
		UpdatedAt:          j.UpdatedAt,
	}
}

func NewJobResponses(jobs []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewJobResponse(j))
	}
	return out
}

func NewScoredJobResponses(items []matching.Scored[job.Job]) []ScoredJobResponse {
	out := make([]ScoredJobResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ScoredJobResponse{JobResponse: NewJobResponse(it.Item), Match: it.Match})
	}
	return out
}
