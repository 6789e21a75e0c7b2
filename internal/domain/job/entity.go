package job

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeFullTime   Type = "Full-Time"
	TypePartTime   Type = "Part-Time"
	TypeInternship Type = "Internship"
	TypeContract   Type = "Contract"
)

func ParseType(raw string) (Type, bool) {
	raw = strings.TrimSpace(raw)
	for _, t := range []Type{TypeFullTime, TypePartTime, TypeInternship, TypeContract} {
		if strings.EqualFold(raw, string(t)) {
			return t, true
		}
	}
	return "", false
}

type Status string

const (
	StatusOpen     Status = "Open"
	StatusClosed   Status = "Closed"
	StatusRejected Status = "Rejected"
)

func ParseStatus(raw string) (Status, bool) {
	raw = strings.TrimSpace(raw)
	for _, s := range []Status{StatusOpen, StatusClosed, StatusRejected} {
		if strings.EqualFold(raw, string(s)) {
			return s, true
		}
	}
	return "", false
}

type Source string

const (
	SourcePortal   Source = "portal"
	SourceLinkedIn Source = "linkedin"
)

type Job struct {
	ID          uuid.UUID
	Title       string
	Description string
	Salary      string
	Skills      []string
	Type        Type
	Location    string
	EmployerID  uuid.UUID
	Status      Status

	Source         Source
	ExternalID     *string
	Company        string
	Requirements   []string
	Benefits       []string
	ApplicationURL string
	PostedDate     *time.Time

	PostedToCandidates bool
	PostedAt           *time.Time
	CandidatesNotified int

	CreatedAt time.Time
	UpdatedAt time.Time

	// Filled by read queries only.
	EmployerName    string
	EmployerEmail   string
	EmployerCompany string
	ApplicantCount  int
}

// ParseSkills splits a comma separated skill string, trimming blanks.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

type ListFilter struct {
	Status     *Status
	EmployerID *uuid.UUID
	Source     *Source
	// Title and Location match case-insensitively anywhere in the field.
	Title    string
	Location string
	Type     *Type
	// AnySkills keeps jobs that list at least one of the given skills.
	AnySkills []string

	PostedToCandidates *bool
	// OrderByPostedAt sorts by posted_at instead of created_at, newest first.
	OrderByPostedAt bool
	Limit           int
}

type CompanyCount struct {
	Company string
	Count   int
}
