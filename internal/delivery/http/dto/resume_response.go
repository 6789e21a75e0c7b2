package dto

import (
	"encoding/json"
	"time"

	"job-portal/internal/domain/resume"

	"github.com/google/uuid"
)

type ResumeResponse struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Type      resume.Type     `json:"type"`
	Template  string          `json:"template,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	FileURL   string          `json:"fileUrl,omitempty"`
	FileName  string          `json:"fileName,omitempty"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type UploadResumeResponse struct {
	Resume          ResumeResponse `json:"resume"`
	SuggestedSkills []string       `json:"suggestedSkills"`
}

// ResumeDetailResponse is the single-resume view and carries the rendered
// markup of generated resumes.
type ResumeDetailResponse struct {
	ResumeResponse
	Content string `json:"content,omitempty"`
}

func NewResumeResponse(r resume.Resume) ResumeResponse {
	return ResumeResponse{
		ID:        r.ID,
		Title:     r.Title,
		Type:      r.Type,
		Template:  r.Template,
		Data:      r.Data,
		FileURL:   r.FileURL,
		FileName:  r.FileName,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func NewResumeResponses(items []resume.Resume) []ResumeResponse {
	out := make([]ResumeResponse, 0, len(items))
	for _, r := range items {
		out = append(out, NewResumeResponse(r))
	}
	return out
}
