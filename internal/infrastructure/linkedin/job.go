package linkedin

import (
	"strings"
	"time"

	"job-portal/internal/domain/job"
)

// Job is an external job record shaped for import into the portal.
type Job struct {
	ExternalID     string     `json:"linkedinId"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Company        string     `json:"company"`
	Location       string     `json:"location"`
	Salary         string     `json:"salary"`
	Type           job.Type   `json:"type"`
	Skills         []string   `json:"skills"`
	Requirements   []string   `json:"requirements"`
	Benefits       []string   `json:"benefits"`
	ApplicationURL string     `json:"applicationUrl"`
	PostedDate     *time.Time `json:"postedDate,omitempty"`
}

var jobTypes = map[string]job.Type{
	"FULL_TIME":  job.TypeFullTime,
	"PART_TIME":  job.TypePartTime,
	"CONTRACT":   job.TypeContract,
	"INTERNSHIP": job.TypeInternship,
	"TEMPORARY":  job.TypeContract,
}

// MapJobType converts a LinkedIn employment type code. Unknown codes are
// treated as full time.
func MapJobType(code string) job.Type {
	if t, ok := jobTypes[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return t
	}
	return job.TypeFullTime
}

// Query is a job search request.
type Query struct {
	Keywords string
	Location string
	Limit    int
}

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

func (q Query) normalized() Query {
	q.Keywords = strings.TrimSpace(q.Keywords)
	q.Location = strings.TrimSpace(q.Location)
	if q.Limit <= 0 {
		q.Limit = DefaultSearchLimit
	}
	if q.Limit > MaxSearchLimit {
		q.Limit = MaxSearchLimit
	}
	return q
}
