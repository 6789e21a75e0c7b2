package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusApplied     Status = "Applied"
	StatusUnderReview Status = "Under Review"
	StatusShortlisted Status = "Shortlisted"
	StatusRejected    Status = "Rejected"
	StatusHired       Status = "Hired"
)

var allStatuses = []Status{StatusApplied, StatusUnderReview, StatusShortlisted, StatusRejected, StatusHired}

// ParseStatus accepts any member of the status enum. No transition graph is
// enforced: an authorized actor may move an application to any status.
func ParseStatus(raw string) (Status, bool) {
	raw = strings.TrimSpace(raw)
	for _, s := range allStatuses {
		if strings.EqualFold(raw, string(s)) {
			return s, true
		}
	}
	return "", false
}

type Application struct {
	ID           uuid.UUID
	CandidateID  uuid.UUID
	JobID        uuid.UUID
	Status       Status
	ResumeURL    string
	MatchPercent int
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Filled by read queries only.
	JobTitle        string
	JobEmployerID   uuid.UUID
	JobSkills       []string
	EmployerName    string
	CompanyName     string
	CandidateName   string
	CandidateEmail  string
	CandidateSkills []string
	CandidateExp    string
}

type ListFilter struct {
	CandidateID *uuid.UUID
	EmployerID  *uuid.UUID
	JobID       *uuid.UUID
	Statuses    []Status
	JobSource   string
}

var (
	ErrNotFound       = errors.New("application not found")
	ErrAlreadyApplied = errors.New("application already exists for candidate and job")
)

type Repository interface {
	// Create inserts the application. A second application for the same
	// (candidate, job) pair fails with ErrAlreadyApplied.
	Create(ctx context.Context, a Application) error
	Exists(ctx context.Context, candidateID, jobID uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (Application, error)
	// List returns matching applications newest first.
	List(ctx context.Context, f ListFilter) ([]Application, error)
	Count(ctx context.Context, f ListFilter) (int, error)
}
