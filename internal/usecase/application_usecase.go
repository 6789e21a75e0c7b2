package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"job-portal/internal/domain/application"
	"job-portal/internal/domain/job"
	"job-portal/internal/domain/matching"
	"job-portal/internal/domain/notification"
	"job-portal/internal/domain/user"
	"job-portal/internal/infrastructure/events"

	"github.com/google/uuid"
)

type ApplyInput struct {
	JobID     uuid.UUID
	ResumeURL string
}

// CandidateApplication is an application as its candidate sees it. Match is
// frozen at apply time; CurrentMatch reflects the profile as it is now.
type CandidateApplication struct {
	application.Application
	CurrentMatch int
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, actor user.Actor, in ApplyInput) (application.Application, error)
	UpdateStatus(ctx context.Context, actor user.Actor, id uuid.UUID, status string) (application.Application, error)
	ListMine(ctx context.Context, actor user.Actor) ([]CandidateApplication, error)
	ListForEmployer(ctx context.Context, actor user.Actor) ([]application.Application, error)
	ListForJob(ctx context.Context, actor user.Actor, jobID uuid.UUID) ([]application.Application, error)
	ListAll(ctx context.Context) ([]application.Application, error)
}

type Applications struct {
	apps     application.Repository
	jobs     job.Repository
	users    user.Repository
	notifier *Notifications
	events   EventPublisher
	logger   *log.Logger
	now      func() time.Time
}

func NewApplicationUsecase(apps application.Repository, jobs job.Repository, users user.Repository, notifier *Notifications, events EventPublisher, logger *log.Logger) *Applications {
	if logger == nil {
		logger = log.Default()
	}
	return &Applications{apps: apps, jobs: jobs, users: users, notifier: notifier, events: events, logger: logger, now: time.Now}
}

func (u *Applications) Apply(ctx context.Context, actor user.Actor, in ApplyInput) (application.Application, error) {
	if !actor.Role.CanApply() {
		return application.Application{}, ErrOnlyCandidatesApply
	}
	if in.JobID == uuid.Nil {
		return application.Application{}, ErrInvalidInput
	}

	exists, err := u.apps.Exists(ctx, actor.ID, in.JobID)
	if err != nil {
		return application.Application{}, ErrInternal
	}
	if exists {
		return application.Application{}, ErrAlreadyApplied
	}

	j, err := u.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return application.Application{}, ErrJobNotFound
		}
		return application.Application{}, ErrInternal
	}
	if j.Status != job.StatusOpen {
		return application.Application{}, ErrJobNotOpen
	}

	candidate, err := u.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return application.Application{}, ErrUserNotFound
		}
		return application.Application{}, ErrInternal
	}

	resumeURL := strings.TrimSpace(in.ResumeURL)
	if resumeURL == "" && candidate.Profile.ResumeURL != nil {
		resumeURL = *candidate.Profile.ResumeURL
	}

	now := u.now().UTC()
	a := application.Application{
		ID:           uuid.New(),
		CandidateID:  actor.ID,
		JobID:        j.ID,
		Status:       application.StatusApplied,
		ResumeURL:    resumeURL,
		MatchPercent: matching.ComputeMatchPercent(candidate.Profile.Skills, j.Skills),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.apps.Create(ctx, a); err != nil {
		if errors.Is(err, application.ErrAlreadyApplied) {
			return application.Application{}, ErrAlreadyApplied
		}
		return application.Application{}, ErrInternal
	}

	jobID := j.ID
	u.notifier.sendOne(ctx, notification.Notification{
		UserID:  j.EmployerID,
		Type:    notification.TypeApplication,
		Title:   "New Application",
		Message: fmt.Sprintf("%s applied for %s (%d%% match)", candidate.Name, j.Title, a.MatchPercent),
		JobID:   &jobID,
	})
	if u.events != nil {
		if err := u.events.Publish(ctx, events.KeyApplicationCreated, a); err != nil {
			u.logger.Printf("[Applications] publish failed id=%s err=%v", a.ID, err)
		}
	}

	a.JobTitle = j.Title
	a.JobEmployerID = j.EmployerID
	a.JobSkills = j.Skills
	a.CandidateName = candidate.Name
	a.CandidateEmail = candidate.Email
	return a, nil
}

// UpdateStatus accepts any status value from the owning employer, an admin or
// the applying candidate.
func (u *Applications) UpdateStatus(ctx context.Context, actor user.Actor, id uuid.UUID, raw string) (application.Application, error) {
	status, ok := application.ParseStatus(raw)
	if !ok {
		return application.Application{}, ErrInvalidAppStatus
	}

	a, err := u.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, ErrInternal
	}
	if !canTouchApplication(actor, a) {
		return application.Application{}, ErrForbidden
	}

	updated, err := u.apps.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, ErrInternal
	}

	if actor.ID != updated.CandidateID {
		jobID := updated.JobID
		u.notifier.sendOne(ctx, notification.Notification{
			UserID:  updated.CandidateID,
			Type:    notification.TypeApplication,
			Title:   "Application Update",
			Message: fmt.Sprintf("Your application for %s is now %s", updated.JobTitle, updated.Status),
			JobID:   &jobID,
		})
	}
	return updated, nil
}

func canTouchApplication(actor user.Actor, a application.Application) bool {
	switch actor.Role {
	case user.RoleAdmin:
		return true
	case user.RoleEmployer:
		return a.JobEmployerID == actor.ID
	case user.RoleCandidate:
		return a.CandidateID == actor.ID
	default:
		return false
	}
}

func (u *Applications) ListMine(ctx context.Context, actor user.Actor) ([]CandidateApplication, error) {
	if !actor.Role.CanApply() {
		return nil, ErrForbidden
	}
	candidate, err := u.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternal
	}
	apps, err := u.apps.List(ctx, application.ListFilter{CandidateID: &actor.ID})
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]CandidateApplication, 0, len(apps))
	for _, a := range apps {
		out = append(out, CandidateApplication{
			Application:  a,
			CurrentMatch: matching.ComputeMatchPercent(candidate.Profile.Skills, a.JobSkills),
		})
	}
	return out, nil
}

func (u *Applications) ListForEmployer(ctx context.Context, actor user.Actor) ([]application.Application, error) {
	if !actor.Role.CanPostJobs() {
		return nil, ErrForbidden
	}
	return u.list(ctx, application.ListFilter{EmployerID: &actor.ID})
}

func (u *Applications) ListForJob(ctx context.Context, actor user.Actor, jobID uuid.UUID) ([]application.Application, error) {
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, ErrInternal
	}
	if !actor.CanManageJob(j.EmployerID) {
		return nil, ErrForbidden
	}
	return u.list(ctx, application.ListFilter{JobID: &jobID})
}

func (u *Applications) ListAll(ctx context.Context) ([]application.Application, error) {
	return u.list(ctx, application.ListFilter{})
}

func (u *Applications) list(ctx context.Context, f application.ListFilter) ([]application.Application, error) {
	apps, err := u.apps.List(ctx, f)
	if err != nil {
		return nil, ErrInternal
	}
	return apps, nil
}
