package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"job-portal/internal/domain/job"
	"job-portal/internal/domain/notification"
	"job-portal/internal/domain/user"
	"job-portal/internal/infrastructure/linkedin"

	"github.com/google/uuid"
)

type linkedInFixture struct {
	users    *memUsers
	jobs     *memJobs
	notifs   *memNotifications
	searcher *fakeSearcher
	uc       *LinkedIn
	admin    user.User
}

func newLinkedInFixture(users ...user.User) *linkedInFixture {
	f := &linkedInFixture{admin: admin()}
	f.users = newMemUsers(append(users, f.admin)...)
	f.jobs = newMemJobs()
	f.notifs = &memNotifications{}
	f.searcher = &fakeSearcher{jobs: linkedin.MockJobs(linkedin.Query{Keywords: "go", Limit: 5}, time.Now())}
	quiet := log.New(io.Discard, "", 0)
	apps := &memApps{jobs: f.jobs, users: f.users}
	notifier := NewNotifications(f.notifs, nil, nil, quiet)
	f.uc = NewLinkedInUsecase(f.searcher, f.jobs, f.users, apps, notifier, &recordingPublisher{}, quiet)
	return f
}

func TestLinkedInSearch_RequiresKeywords(t *testing.T) {
	f := newLinkedInFixture()
	if _, err := f.uc.Search(context.Background(), linkedin.Query{Keywords: "  "}); !errors.Is(err, ErrKeywordsRequired) {
		t.Fatalf("expected ErrKeywordsRequired, got %v", err)
	}
	jobs, err := f.uc.Search(context.Background(), linkedin.Query{Keywords: "go", Limit: 2})
	if err != nil || len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d (%v)", len(jobs), err)
	}
}

func TestLinkedInImport_DuplicateIsOutcome(t *testing.T) {
	f := newLinkedInFixture()
	ctx := context.Background()

	first, err := f.uc.Import(ctx, actorOf(f.admin), "linkedin_2", linkedin.Query{Keywords: "go"})
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	if !first.Success || first.Message != "Job imported successfully" {
		t.Fatalf("unexpected first result %+v", first)
	}
	if first.Job.EmployerID != f.admin.ID || first.Job.Status != job.StatusOpen || first.Job.Source != job.SourceLinkedIn {
		t.Fatalf("unexpected imported job %+v", first.Job)
	}
	if got := f.searcher.calls[0].Limit; got != 50 {
		t.Fatalf("expected lookup limit 50, got %d", got)
	}

	second, err := f.uc.Import(ctx, actorOf(f.admin), "linkedin_2", linkedin.Query{Keywords: "go"})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.Success || !second.Duplicate || second.Message != "Job already imported" {
		t.Fatalf("unexpected duplicate result %+v", second)
	}
	if second.Job == nil || second.Job.ID != first.Job.ID {
		t.Fatalf("expected duplicate to return the existing job")
	}

	src := job.SourceLinkedIn
	if n, _ := f.jobs.Count(ctx, job.ListFilter{Source: &src}); n != 1 {
		t.Fatalf("expected exactly one linkedin job, got %d", n)
	}
}

func TestLinkedInImport_Missing(t *testing.T) {
	f := newLinkedInFixture()
	if _, err := f.uc.Import(context.Background(), actorOf(f.admin), "linkedin_99", linkedin.Query{}); !errors.Is(err, ErrExternalJobMissing) {
		t.Fatalf("expected ErrExternalJobMissing, got %v", err)
	}
}

func TestLinkedInBulkImport_Aggregates(t *testing.T) {
	f := newLinkedInFixture()
	ctx := context.Background()
	f.uc.SetImportWorkers(3)

	if _, err := f.uc.Import(ctx, actorOf(f.admin), "linkedin_1", linkedin.Query{}); err != nil {
		t.Fatalf("seed import: %v", err)
	}

	res, err := f.uc.BulkImport(ctx, actorOf(f.admin), BulkImportInput{Keywords: "go", Limit: 5})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Total != 5 || res.Successful != 4 || res.Failed != 1 {
		t.Fatalf("unexpected totals %+v", res)
	}
	for i, r := range res.Results {
		want := f.searcher.jobs[i].ExternalID
		if r.ExternalID != want {
			t.Fatalf("result %d: expected %s, got %s", i, want, r.ExternalID)
		}
	}
	if !res.Results[0].Duplicate {
		t.Fatalf("expected first record to be a duplicate")
	}

	sel, err := f.uc.BulkImport(ctx, actorOf(f.admin), BulkImportInput{Keywords: "go", JobIDs: []string{"linkedin_3", "linkedin_9"}})
	if err != nil {
		t.Fatalf("selected import: %v", err)
	}
	if sel.Total != 1 || sel.Failed != 1 {
		t.Fatalf("expected one already-imported record, got %+v", sel)
	}

	if _, err := f.uc.BulkImport(ctx, actorOf(f.admin), BulkImportInput{}); !errors.Is(err, ErrKeywordsRequired) {
		t.Fatalf("expected ErrKeywordsRequired, got %v", err)
	}
}

func TestLinkedInBulkImport_RateLimited(t *testing.T) {
	f := newLinkedInFixture()
	f.uc.SetImportWorkers(5)
	f.uc.SetImportRate(50)

	start := time.Now()
	res, err := f.uc.BulkImport(context.Background(), actorOf(f.admin), BulkImportInput{Keywords: "go", Limit: 5})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Successful != 5 {
		t.Fatalf("expected 5 imports, got %+v", res)
	}
	// Five starts at 20ms spacing.
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Fatalf("expected throttled imports, took %s", elapsed)
	}
}

func TestLinkedInBulkImport_SameRecordTwice(t *testing.T) {
	f := newLinkedInFixture()
	dup := f.searcher.jobs[0]
	f.searcher.jobs = []linkedin.Job{dup, dup, dup}
	f.uc.SetImportWorkers(3)

	res, err := f.uc.BulkImport(context.Background(), actorOf(f.admin), BulkImportInput{Keywords: "go"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Successful != 1 || res.Failed != 2 {
		t.Fatalf("expected exactly one successful import, got %+v", res)
	}
}

func TestPostToCandidates(t *testing.T) {
	goDev := candidate("Go", "SQL")
	jsDev := candidate("JavaScript")
	banned := candidate("Go")
	banned.Status = user.StatusBanned
	f := newLinkedInFixture(goDev, jsDev, banned)
	ctx := context.Background()

	imp, err := f.uc.Import(ctx, actorOf(f.admin), "linkedin_1", linkedin.Query{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	res, err := f.uc.PostToCandidates(ctx, PostToCandidatesInput{JobID: imp.Job.ID, TargetSkills: []string{"Go"}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.CandidatesNotified != 1 {
		t.Fatalf("expected 1 candidate notified, got %d", res.CandidatesNotified)
	}
	got := f.notifs.forUser(goDev.ID)
	if len(got) != 1 || got[0].Type != notification.TypeLinkedInJob || got[0].Title != "New LinkedIn Job: "+imp.Job.Title {
		t.Fatalf("unexpected notification %+v", got)
	}
	if got[0].JobID == nil || *got[0].JobID != imp.Job.ID {
		t.Fatalf("expected notification to reference the job")
	}
	if f.jobs.posted[imp.Job.ID] != 1 {
		t.Fatalf("expected job marked as posted to 1 candidate")
	}

	history, err := f.uc.PostingHistory(ctx)
	if err != nil || len(history) != 1 {
		t.Fatalf("expected 1 posted job, got %d (%v)", len(history), err)
	}

	none, err := f.uc.PostToCandidates(ctx, PostToCandidatesInput{JobID: imp.Job.ID, TargetSkills: []string{"Cobol"}})
	if err != nil || none.CandidatesNotified != 0 {
		t.Fatalf("expected no candidates, got %d (%v)", none.CandidatesNotified, err)
	}
}

func TestPostToCandidates_OnlyLinkedInJobs(t *testing.T) {
	f := newLinkedInFixture(candidate("Go"))
	portal := openJob(uuid.New(), "Portal job", "Go")
	_ = f.jobs.Create(context.Background(), portal)

	for _, id := range []uuid.UUID{portal.ID, uuid.New()} {
		if _, err := f.uc.PostToCandidates(context.Background(), PostToCandidatesInput{JobID: id}); !errors.Is(err, ErrLinkedInJobMissing) {
			t.Fatalf("expected ErrLinkedInJobMissing, got %v", err)
		}
	}
}

func TestLinkedInStats(t *testing.T) {
	f := newLinkedInFixture()
	ctx := context.Background()
	if _, err := f.uc.BulkImport(ctx, actorOf(f.admin), BulkImportInput{Keywords: "go", Limit: 3}); err != nil {
		t.Fatalf("bulk import: %v", err)
	}
	s, err := f.uc.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.TotalJobs != 3 || s.ActiveJobs != 3 || s.Applications != 0 {
		t.Fatalf("unexpected stats %+v", s)
	}
}
