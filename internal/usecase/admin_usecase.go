package usecase

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"

	"job-portal/internal/domain/application"
	"job-portal/internal/domain/job"
	"job-portal/internal/domain/notification"
	"job-portal/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	analyticsDays       = 7
	topCategoriesLimit  = 5
	BroadcastAll        = "all"
	BroadcastCandidates = "candidates"
	BroadcastEmployers  = "employers"
	broadcastTitle      = "Announcement"
)

type Summary struct {
	TotalUsers        int
	TotalJobs         int
	TotalApplications int
	ActiveSessions    int
}

type Analytics struct {
	ApplicationRate int
	TopCategories   []string
	UserGrowth      []int
	JobGrowth       []int
}

type BroadcastInput struct {
	Message     string
	TargetUsers []string
}

type AdminUsecase interface {
	Summary(ctx context.Context) (Summary, error)
	ListUsers(ctx context.Context) ([]user.User, error)
	SetUserBanned(ctx context.Context, id uuid.UUID, banned bool) (user.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListJobs(ctx context.Context) ([]job.Job, error)
	SetJobStatus(ctx context.Context, id uuid.UUID, status job.Status) (job.Job, error)
	DeleteJob(ctx context.Context, id uuid.UUID) error
	Analytics(ctx context.Context) (Analytics, error)
	Broadcast(ctx context.Context, in BroadcastInput) (int, error)
}

type Admin struct {
	users    user.Repository
	jobs     job.Repository
	apps     application.Repository
	notifier *Notifications
	store    FileStore
	sessions SessionCounter
	logger   *log.Logger
}

func NewAdminUsecase(users user.Repository, jobs job.Repository, apps application.Repository, notifier *Notifications, store FileStore, sessions SessionCounter, logger *log.Logger) *Admin {
	if logger == nil {
		logger = log.Default()
	}
	return &Admin{users: users, jobs: jobs, apps: apps, notifier: notifier, store: store, sessions: sessions, logger: logger}
}

// Summary counts users, jobs and applications concurrently. Active sessions
// are the websocket clients connected right now.
func (a *Admin) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.TotalUsers, err = a.users.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.TotalJobs, err = a.jobs.Count(gctx, job.ListFilter{})
		return err
	})
	g.Go(func() (err error) {
		s.TotalApplications, err = a.apps.Count(gctx, application.ListFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, ErrInternal
	}
	if a.sessions != nil {
		s.ActiveSessions = a.sessions.ClientCount()
	}
	return s, nil
}

func (a *Admin) ListUsers(ctx context.Context) ([]user.User, error) {
	users, err := a.users.List(ctx, user.ListFilter{})
	if err != nil {
		return nil, ErrInternal
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (a *Admin) SetUserBanned(ctx context.Context, id uuid.UUID, banned bool) (user.User, error) {
	status := user.StatusActive
	if banned {
		status = user.StatusBanned
	}
	u, err := a.users.SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrUserNotFound
		}
		return user.User{}, ErrInternal
	}
	u.PasswordHash = ""
	return u, nil
}

// DeleteUser removes the user with everything it owns, then the uploaded
// resume files. Files already gone are skipped so a retry completes.
func (a *Admin) DeleteUser(ctx context.Context, id uuid.UUID) error {
	keys, err := a.users.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return ErrInternal
	}
	if a.store == nil {
		return nil
	}
	for _, k := range keys {
		if err := a.store.Delete(ctx, k); err != nil {
			a.logger.Printf("[Admin] resume file cleanup failed | user=%s key=%s err=%v", id, k, err)
		}
	}
	return nil
}

func (a *Admin) ListJobs(ctx context.Context) ([]job.Job, error) {
	jobs, err := a.jobs.List(ctx, job.ListFilter{})
	if err != nil {
		return nil, ErrInternal
	}
	return jobs, nil
}

func (a *Admin) SetJobStatus(ctx context.Context, id uuid.UUID, status job.Status) (job.Job, error) {
	j, err := a.jobs.SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, ErrInternal
	}
	return j, nil
}

func (a *Admin) DeleteJob(ctx context.Context, id uuid.UUID) error {
	if err := a.jobs.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return ErrJobNotFound
		}
		return ErrInternal
	}
	return nil
}

// Analytics reports the share of applications that reached Shortlisted or
// Hired, the most common first skills, and daily sign-ups and postings over
// the last week.
func (a *Admin) Analytics(ctx context.Context) (Analytics, error) {
	var (
		out        Analytics
		total      int
		successful int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = a.apps.Count(gctx, application.ListFilter{})
		return err
	})
	g.Go(func() (err error) {
		successful, err = a.apps.Count(gctx, application.ListFilter{
			Statuses: []application.Status{application.StatusShortlisted, application.StatusHired},
		})
		return err
	})
	g.Go(func() (err error) {
		out.TopCategories, err = a.jobs.TopFirstSkills(gctx, topCategoriesLimit)
		return err
	})
	g.Go(func() (err error) {
		out.UserGrowth, err = a.users.CreatedPerDay(gctx, analyticsDays)
		return err
	})
	g.Go(func() (err error) {
		out.JobGrowth, err = a.jobs.CreatedPerDay(gctx, analyticsDays)
		return err
	})
	if err := g.Wait(); err != nil {
		return Analytics{}, ErrInternal
	}
	if total > 0 {
		out.ApplicationRate = int(math.Round(float64(successful) / float64(total) * 100))
	}
	return out, nil
}

// Broadcast notifies every user in the target groups and returns how many
// were reached. "all" wins over the role groups.
func (a *Admin) Broadcast(ctx context.Context, in BroadcastInput) (int, error) {
	msg := strings.TrimSpace(in.Message)
	roles, ok := broadcastRoles(in.TargetUsers)
	if msg == "" || !ok {
		return 0, ErrInvalidBroadcast
	}

	seen := make(map[uuid.UUID]struct{})
	var items []notification.Notification
	for _, role := range roles {
		users, err := a.users.List(ctx, user.ListFilter{Role: role})
		if err != nil {
			return 0, ErrInternal
		}
		for _, u := range users {
			if _, dup := seen[u.ID]; dup {
				continue
			}
			seen[u.ID] = struct{}{}
			items = append(items, notification.Notification{
				UserID:  u.ID,
				Type:    notification.TypeAdmin,
				Title:   broadcastTitle,
				Message: msg,
			})
		}
	}

	if _, err := a.notifier.Send(ctx, items); err != nil {
		return 0, err
	}
	a.logger.Printf("[Admin] broadcast sent | targets=%v recipients=%d", in.TargetUsers, len(items))
	return len(items), nil
}

// broadcastRoles turns target groups into role filters; the empty role lists
// every user.
func broadcastRoles(targets []string) ([]user.Role, bool) {
	var roles []user.Role
	for _, t := range targets {
		switch strings.ToLower(strings.TrimSpace(t)) {
		case BroadcastAll:
			return []user.Role{""}, true
		case BroadcastCandidates:
			roles = appendRole(roles, user.RoleCandidate)
		case BroadcastEmployers:
			roles = appendRole(roles, user.RoleEmployer)
		}
	}
	return roles, len(roles) > 0
}

func appendRole(roles []user.Role, r user.Role) []user.Role {
	for _, have := range roles {
		if have == r {
			return roles
		}
	}
	return append(roles, r)
}
