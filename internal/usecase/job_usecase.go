package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"job-portal/internal/domain/job"
	"job-portal/internal/domain/user"

	"github.com/google/uuid"
)

type CreateJobInput struct {
	Title       string
	Description string
	Salary      string
	Skills      []string
	Type        string
	Location    string
}

// UpdateJobInput carries optional changes; nil and blank fields are ignored.
type UpdateJobInput struct {
	Title       *string
	Description *string
	Salary      *string
	Skills      *[]string
	Type        *string
	Location    *string
	Status      *string
}

type JobSearchParams struct {
	Title    string
	Location string
	Type     string
	Skills   []string
}

type JobUsecase interface {
	Create(ctx context.Context, actor user.Actor, in CreateJobInput) (job.Job, error)
	Search(ctx context.Context, p JobSearchParams) ([]job.Job, error)
	Get(ctx context.Context, id uuid.UUID) (job.Job, error)
	Update(ctx context.Context, actor user.Actor, id uuid.UUID, in UpdateJobInput) (job.Job, error)
	Delete(ctx context.Context, actor user.Actor, id uuid.UUID) error
	ListMine(ctx context.Context, actor user.Actor) ([]job.Job, error)
	ListAll(ctx context.Context) ([]job.Job, error)
	SetApproval(ctx context.Context, id uuid.UUID, approved bool) (job.Job, error)
}

type Jobs struct {
	jobs job.Repository
	now  func() time.Time
}

func NewJobUsecase(jobs job.Repository) *Jobs {
	return &Jobs{jobs: jobs, now: time.Now}
}

func (u *Jobs) Create(ctx context.Context, actor user.Actor, in CreateJobInput) (job.Job, error) {
	if !actor.Role.CanPostJobs() {
		return job.Job{}, ErrOnlyEmployersPost
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return job.Job{}, ErrInvalidInput
	}
	typ := job.TypeFullTime
	if strings.TrimSpace(in.Type) != "" {
		t, ok := job.ParseType(in.Type)
		if !ok {
			return job.Job{}, ErrInvalidJobType
		}
		typ = t
	}

	now := u.now().UTC()
	j := job.Job{
		ID:          uuid.New(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Salary:      strings.TrimSpace(in.Salary),
		Skills:      cleanList(in.Skills),
		Type:        typ,
		Location:    strings.TrimSpace(in.Location),
		EmployerID:  actor.ID,
		Status:      job.StatusOpen,
		Source:      job.SourcePortal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.jobs.Create(ctx, j); err != nil {
		return job.Job{}, ErrInternal
	}
	return u.reload(ctx, j)
}

// Search lists open jobs only, newest first.
func (u *Jobs) Search(ctx context.Context, p JobSearchParams) ([]job.Job, error) {
	open := job.StatusOpen
	f := job.ListFilter{
		Status:    &open,
		Title:     strings.TrimSpace(p.Title),
		Location:  strings.TrimSpace(p.Location),
		AnySkills: cleanList(p.Skills),
	}
	if strings.TrimSpace(p.Type) != "" {
		t, ok := job.ParseType(p.Type)
		if !ok {
			return nil, ErrInvalidJobType
		}
		f.Type = &t
	}
	jobs, err := u.jobs.List(ctx, f)
	if err != nil {
		return nil, ErrInternal
	}
	return jobs, nil
}

func (u *Jobs) Get(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, ErrInternal
	}
	return j, nil
}

func (u *Jobs) Update(ctx context.Context, actor user.Actor, id uuid.UUID, in UpdateJobInput) (job.Job, error) {
	j, err := u.Get(ctx, id)
	if err != nil {
		return job.Job{}, err
	}
	if !actor.CanManageJob(j.EmployerID) {
		return job.Job{}, ErrForbidden
	}

	if v := nonBlank(in.Title); v != "" {
		j.Title = v
	}
	if v := nonBlank(in.Description); v != "" {
		j.Description = v
	}
	if v := nonBlank(in.Salary); v != "" {
		j.Salary = v
	}
	if in.Skills != nil {
		if skills := cleanList(*in.Skills); len(skills) > 0 {
			j.Skills = skills
		}
	}
	if v := nonBlank(in.Type); v != "" {
		t, ok := job.ParseType(v)
		if !ok {
			return job.Job{}, ErrInvalidJobType
		}
		j.Type = t
	}
	if v := nonBlank(in.Location); v != "" {
		j.Location = v
	}
	if v := nonBlank(in.Status); v != "" {
		s, ok := job.ParseStatus(v)
		if !ok {
			return job.Job{}, ErrInvalidJobStatus
		}
		j.Status = s
	}
	j.UpdatedAt = u.now().UTC()

	if err := u.jobs.Update(ctx, j); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, ErrInternal
	}
	return u.reload(ctx, j)
}

func (u *Jobs) Delete(ctx context.Context, actor user.Actor, id uuid.UUID) error {
	j, err := u.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManageJob(j.EmployerID) {
		return ErrForbidden
	}
	if err := u.jobs.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return ErrJobNotFound
		}
		return ErrInternal
	}
	return nil
}

func (u *Jobs) ListMine(ctx context.Context, actor user.Actor) ([]job.Job, error) {
	if !actor.Role.CanPostJobs() {
		return nil, ErrForbidden
	}
	jobs, err := u.jobs.List(ctx, job.ListFilter{EmployerID: &actor.ID})
	if err != nil {
		return nil, ErrInternal
	}
	return jobs, nil
}

func (u *Jobs) ListAll(ctx context.Context) ([]job.Job, error) {
	jobs, err := u.jobs.List(ctx, job.ListFilter{})
	if err != nil {
		return nil, ErrInternal
	}
	return jobs, nil
}

// SetApproval opens an approved job or marks it rejected.
func (u *Jobs) SetApproval(ctx context.Context, id uuid.UUID, approved bool) (job.Job, error) {
	status := job.StatusRejected
	if approved {
		status = job.StatusOpen
	}
	j, err := u.jobs.SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, ErrInternal
	}
	return j, nil
}

// reload returns the stored job with its read-only projections, falling back
// to the written value if the read fails.
func (u *Jobs) reload(ctx context.Context, j job.Job) (job.Job, error) {
	stored, err := u.jobs.GetByID(ctx, j.ID)
	if err != nil {
		return j, nil
	}
	return stored, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func nonBlank(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
