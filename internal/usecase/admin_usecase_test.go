package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"job-portal/internal/domain/application"
	"job-portal/internal/domain/job"
	"job-portal/internal/domain/notification"
	"job-portal/internal/domain/user"

	"github.com/google/uuid"
)

type adminFixture struct {
	users  *memUsers
	jobs   *memJobs
	apps   *memApps
	notifs *memNotifications
	store  *memStore
	uc     *Admin
	cands  []user.User
	emp    user.User
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{cands: []user.User{candidate("go"), candidate("sql")}, emp: employer()}
	f.users = newMemUsers(append([]user.User{f.emp, admin()}, f.cands...)...)
	f.jobs = newMemJobs()
	f.apps = &memApps{jobs: f.jobs, users: f.users}
	f.notifs = &memNotifications{}
	f.store = newMemStore()
	quiet := log.New(io.Discard, "", 0)
	notifier := NewNotifications(f.notifs, &recordingPusher{}, nil, quiet)
	f.uc = NewAdminUsecase(f.users, f.jobs, f.apps, notifier, f.store, fixedSessions(3), quiet)
	return f
}

func TestAdminSummary(t *testing.T) {
	f := newAdminFixture()
	j := openJob(f.emp.ID, "Go dev", "Go")
	_ = f.jobs.Create(context.Background(), j)
	_ = f.apps.Create(context.Background(), application.Application{ID: uuid.New(), CandidateID: f.cands[0].ID, JobID: j.ID})

	s, err := f.uc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.TotalUsers != 4 || s.TotalJobs != 1 || s.TotalApplications != 1 || s.ActiveSessions != 3 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestAdminAnalytics_ApplicationRate(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	j := openJob(f.emp.ID, "Go dev", "Go")
	_ = f.jobs.Create(ctx, j)
	statuses := []application.Status{application.StatusHired, application.StatusShortlisted, application.StatusRejected}
	for _, s := range statuses {
		_ = f.apps.Create(ctx, application.Application{ID: uuid.New(), CandidateID: uuid.New(), JobID: j.ID, Status: s})
	}

	a, err := f.uc.Analytics(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.ApplicationRate != 67 {
		t.Fatalf("expected rate 67, got %d", a.ApplicationRate)
	}
	if len(a.UserGrowth) != 7 || len(a.JobGrowth) != 7 {
		t.Fatalf("expected 7 days of growth, got %d and %d", len(a.UserGrowth), len(a.JobGrowth))
	}
	if len(a.TopCategories) == 0 {
		t.Fatalf("expected top categories")
	}
}

func TestAdminAnalytics_NoApplications(t *testing.T) {
	a, err := newAdminFixture().uc.Analytics(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.ApplicationRate != 0 {
		t.Fatalf("expected rate 0, got %d", a.ApplicationRate)
	}
}

func TestBroadcast(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	n, err := f.uc.Broadcast(ctx, BroadcastInput{Message: "Maintenance tonight", TargetUsers: []string{"candidates"}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 recipients, got %d", n)
	}
	for _, c := range f.cands {
		got := f.notifs.forUser(c.ID)
		if len(got) != 1 || got[0].Type != notification.TypeAdmin || got[0].Message != "Maintenance tonight" {
			t.Fatalf("unexpected notifications for candidate: %+v", got)
		}
	}
	if got := f.notifs.forUser(f.emp.ID); len(got) != 0 {
		t.Fatalf("expected employer untouched, got %d", len(got))
	}

	n, err = f.uc.Broadcast(ctx, BroadcastInput{Message: "Hello", TargetUsers: []string{"employers", "all"}})
	if err != nil || n != 4 {
		t.Fatalf("expected all 4 users, got %d (%v)", n, err)
	}
	n, err = f.uc.Broadcast(ctx, BroadcastInput{Message: "Hi", TargetUsers: []string{"candidates", "employers", "candidates"}})
	if err != nil || n != 3 {
		t.Fatalf("expected 3 users without duplicates, got %d (%v)", n, err)
	}
}

func TestBroadcast_Invalid(t *testing.T) {
	f := newAdminFixture()
	for _, in := range []BroadcastInput{
		{Message: "", TargetUsers: []string{"all"}},
		{Message: "x"},
		{Message: "x", TargetUsers: []string{"robots"}},
	} {
		if _, err := f.uc.Broadcast(context.Background(), in); !errors.Is(err, ErrInvalidBroadcast) {
			t.Fatalf("input %+v: expected ErrInvalidBroadcast, got %v", in, err)
		}
	}
}

func TestAdminDeleteUser_RemovesResumeFiles(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	victim := f.cands[0]
	f.store.files["resume-1-1.pdf"] = []byte("x")
	f.users.keys[victim.ID] = []string{"resume-1-1.pdf"}

	if err := f.uc.DeleteUser(ctx, victim.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := f.store.files["resume-1-1.pdf"]; ok {
		t.Fatalf("expected resume file removed")
	}
	if err := f.uc.DeleteUser(ctx, victim.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestAdminBanAndJobModeration(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	u, err := f.uc.SetUserBanned(ctx, f.cands[0].ID, true)
	if err != nil || u.Status != user.StatusBanned {
		t.Fatalf("expected banned, got %s (%v)", u.Status, err)
	}
	u, err = f.uc.SetUserBanned(ctx, f.cands[0].ID, false)
	if err != nil || u.Status != user.StatusActive {
		t.Fatalf("expected active, got %s (%v)", u.Status, err)
	}
	if _, err := f.uc.SetUserBanned(ctx, uuid.New(), true); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	j := openJob(f.emp.ID, "Go dev")
	_ = f.jobs.Create(ctx, j)
	got, err := f.uc.SetJobStatus(ctx, j.ID, job.StatusRejected)
	if err != nil || got.Status != job.StatusRejected {
		t.Fatalf("expected rejected, got %s (%v)", got.Status, err)
	}
	if err := f.uc.DeleteJob(ctx, j.ID); err != nil {
		t.Fatalf("delete job: %v", err)
	}
	if err := f.uc.DeleteJob(ctx, j.ID); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestAdminListUsers_StripsPasswords(t *testing.T) {
	f := newAdminFixture()
	c := f.users.byID[f.cands[0].ID]
	c.PasswordHash = "secret-hash"
	f.users.byID[c.ID] = c

	users, err := f.uc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Fatalf("expected password hash stripped for %s", u.Email)
		}
	}
}
