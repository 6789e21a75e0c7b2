package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"job-portal/internal/domain/application"
	"job-portal/internal/domain/job"
	"job-portal/internal/domain/notification"
	"job-portal/internal/domain/user"
	"job-portal/internal/infrastructure/events"
	"job-portal/internal/infrastructure/linkedin"
	"job-portal/internal/worker"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	importLookupLimit     = 50
	importHistoryLimit    = 50
	postingHistoryLimit   = 20
	candidateLookupLimit  = 50
	topCompaniesLimit     = 5
	defaultImportWorkers  = 4
	importMessageOK       = "Job imported successfully"
	importMessageDup      = "Job already imported"
	importMessageFailed   = "Failed to import job"
	linkedInNotifTitleFmt = "New LinkedIn Job: %s"
)

// ImportResult is the outcome of importing one external job. A duplicate is
// reported here with Success false, never as an error.
type ImportResult struct {
	ExternalID string
	Success    bool
	Duplicate  bool
	Message    string
	Job        *job.Job
}

type BulkImportInput struct {
	Keywords string
	Location string
	Limit    int
	JobIDs   []string
}

type BulkImportResult struct {
	Total      int
	Successful int
	Failed     int
	Results    []ImportResult
}

type LinkedInStats struct {
	TotalJobs    int
	ActiveJobs   int
	Applications int
	TopCompanies []job.CompanyCount
}

type PostToCandidatesInput struct {
	JobID           uuid.UUID
	TargetSkills    []string
	TargetLocations []string
	Message         string
}

type PostToCandidatesResult struct {
	CandidatesNotified int
	Job                *job.Job
}

type LinkedInUsecase interface {
	Search(ctx context.Context, q linkedin.Query) ([]linkedin.Job, error)
	Import(ctx context.Context, actor user.Actor, externalID string, q linkedin.Query) (ImportResult, error)
	BulkImport(ctx context.Context, actor user.Actor, in BulkImportInput) (BulkImportResult, error)
	History(ctx context.Context) ([]job.Job, error)
	Stats(ctx context.Context) (LinkedInStats, error)
	PostToCandidates(ctx context.Context, in PostToCandidatesInput) (PostToCandidatesResult, error)
	Candidates(ctx context.Context, skills []string) ([]user.User, error)
	PostingHistory(ctx context.Context) ([]job.Job, error)
}

type LinkedIn struct {
	searcher ExternalJobSearcher
	jobs     job.Repository
	users    user.Repository
	apps     application.Repository
	notifier *Notifications
	events   EventPublisher
	workers  int
	rps      int
	logger   *log.Logger
	now      func() time.Time
}

func NewLinkedInUsecase(searcher ExternalJobSearcher, jobs job.Repository, users user.Repository, apps application.Repository, notifier *Notifications, events EventPublisher, logger *log.Logger) *LinkedIn {
	if logger == nil {
		logger = log.Default()
	}
	return &LinkedIn{
		searcher: searcher,
		jobs:     jobs,
		users:    users,
		apps:     apps,
		notifier: notifier,
		events:   events,
		workers:  defaultImportWorkers,
		logger:   logger,
		now:      time.Now,
	}
}

// SetImportWorkers bounds how many records a bulk import writes at once.
func (u *LinkedIn) SetImportWorkers(n int) {
	if n > 0 {
		u.workers = n
	}
}

// SetImportRate caps record imports started per second. Zero or less removes
// the cap.
func (u *LinkedIn) SetImportRate(rps int) {
	if rps < 0 {
		rps = 0
	}
	u.rps = rps
}

func (u *LinkedIn) Search(ctx context.Context, q linkedin.Query) ([]linkedin.Job, error) {
	if strings.TrimSpace(q.Keywords) == "" {
		return nil, ErrKeywordsRequired
	}
	jobs, err := u.searcher.Search(ctx, q)
	if err != nil {
		return nil, ErrInternal
	}
	return jobs, nil
}

// Import looks the record up in a wide search and imports it. Records that
// the search does not return are reported as missing.
func (u *LinkedIn) Import(ctx context.Context, actor user.Actor, externalID string, q linkedin.Query) (ImportResult, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return ImportResult{}, ErrInvalidInput
	}
	q.Limit = importLookupLimit
	found, err := u.searcher.Search(ctx, q)
	if err != nil {
		return ImportResult{}, ErrInternal
	}
	for _, ext := range found {
		if ext.ExternalID != externalID {
			continue
		}
		res, err := u.importOne(ctx, actor.ID, ext)
		if err != nil {
			return ImportResult{}, ErrInternal
		}
		return res, nil
	}
	return ImportResult{}, ErrExternalJobMissing
}

// BulkImport imports each searched record independently. A failing record is
// counted and never rolls back the others.
func (u *LinkedIn) BulkImport(ctx context.Context, actor user.Actor, in BulkImportInput) (BulkImportResult, error) {
	if strings.TrimSpace(in.Keywords) == "" {
		return BulkImportResult{}, ErrKeywordsRequired
	}
	found, err := u.searcher.Search(ctx, linkedin.Query{Keywords: in.Keywords, Location: in.Location, Limit: in.Limit})
	if err != nil {
		return BulkImportResult{}, ErrInternal
	}
	selected := filterByExternalID(found, in.JobIDs)

	results := make([]ImportResult, len(selected))
	pool := worker.NewPool(u.workers, len(selected))
	pool.SetRateLimit(u.rps)
	done := pool.Start(ctx)
	for i, ext := range selected {
		results[i] = ImportResult{ExternalID: ext.ExternalID, Message: importMessageFailed}
		task := worker.Task{
			Key: strconv.Itoa(i),
			Run: func(ctx context.Context) error {
				res, err := u.importOne(ctx, actor.ID, ext)
				if err != nil {
					return err
				}
				results[i] = res
				return nil
			},
		}
		if err := pool.Submit(ctx, task); err != nil {
			break
		}
	}
	pool.Close()
	for r := range done {
		if r.Err != nil {
			u.logger.Printf("[LinkedIn] import failed | index=%s err=%v", r.Key, r.Err)
		}
	}

	out := BulkImportResult{Total: len(results), Results: results}
	for _, r := range results {
		if r.Success {
			out.Successful++
		} else {
			out.Failed++
		}
	}
	u.logger.Printf("[LinkedIn] bulk import done | total=%d successful=%d failed=%d", out.Total, out.Successful, out.Failed)
	return out, nil
}

func filterByExternalID(jobs []linkedin.Job, ids []string) []linkedin.Job {
	if len(ids) == 0 {
		return jobs
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[strings.TrimSpace(id)] = struct{}{}
	}
	out := make([]linkedin.Job, 0, len(jobs))
	for _, j := range jobs {
		if _, ok := want[j.ExternalID]; ok {
			out = append(out, j)
		}
	}
	return out
}

// importOne creates the job unless one with the same external id exists. The
// unique index decides races between concurrent imports of the same record.
func (u *LinkedIn) importOne(ctx context.Context, adminID uuid.UUID, ext linkedin.Job) (ImportResult, error) {
	existing, err := u.jobs.GetByExternalID(ctx, job.SourceLinkedIn, ext.ExternalID)
	switch {
	case err == nil:
		return duplicateResult(existing), nil
	case !errors.Is(err, job.ErrNotFound):
		return ImportResult{}, fmt.Errorf("lookup %s: %w", ext.ExternalID, err)
	}

	now := u.now().UTC()
	externalID := ext.ExternalID
	j := job.Job{
		ID:             uuid.New(),
		Title:          ext.Title,
		Description:    ext.Description,
		Salary:         ext.Salary,
		Skills:         ext.Skills,
		Type:           ext.Type,
		Location:       ext.Location,
		EmployerID:     adminID,
		Status:         job.StatusOpen,
		Source:         job.SourceLinkedIn,
		ExternalID:     &externalID,
		Company:        ext.Company,
		Requirements:   ext.Requirements,
		Benefits:       ext.Benefits,
		ApplicationURL: ext.ApplicationURL,
		PostedDate:     ext.PostedDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if j.Type == "" {
		j.Type = job.TypeFullTime
	}
	if err := u.jobs.Create(ctx, j); err != nil {
		if errors.Is(err, job.ErrDuplicateExternal) {
			existing, gerr := u.jobs.GetByExternalID(ctx, job.SourceLinkedIn, ext.ExternalID)
			if gerr != nil {
				return ImportResult{}, fmt.Errorf("reload %s: %w", ext.ExternalID, gerr)
			}
			return duplicateResult(existing), nil
		}
		return ImportResult{}, fmt.Errorf("create %s: %w", ext.ExternalID, err)
	}

	if u.events != nil {
		if err := u.events.Publish(ctx, events.KeyJobImported, j); err != nil {
			u.logger.Printf("[LinkedIn] publish failed | job=%s err=%v", j.ID, err)
		}
	}
	return ImportResult{ExternalID: externalID, Success: true, Message: importMessageOK, Job: &j}, nil
}

func duplicateResult(existing job.Job) ImportResult {
	id := ""
	if existing.ExternalID != nil {
		id = *existing.ExternalID
	}
	return ImportResult{ExternalID: id, Duplicate: true, Message: importMessageDup, Job: &existing}
}

func (u *LinkedIn) History(ctx context.Context) ([]job.Job, error) {
	src := job.SourceLinkedIn
	jobs, err := u.jobs.List(ctx, job.ListFilter{Source: &src, Limit: importHistoryLimit})
	if err != nil {
		return nil, ErrInternal
	}
	return jobs, nil
}

func (u *LinkedIn) Stats(ctx context.Context) (LinkedInStats, error) {
	var s LinkedInStats
	src := job.SourceLinkedIn
	open := job.StatusOpen

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.TotalJobs, err = u.jobs.Count(gctx, job.ListFilter{Source: &src})
		return err
	})
	g.Go(func() (err error) {
		s.ActiveJobs, err = u.jobs.Count(gctx, job.ListFilter{Source: &src, Status: &open})
		return err
	})
	g.Go(func() (err error) {
		s.Applications, err = u.apps.Count(gctx, application.ListFilter{JobSource: string(src)})
		return err
	})
	g.Go(func() (err error) {
		s.TopCompanies, err = u.jobs.TopCompanies(gctx, src, topCompaniesLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return LinkedInStats{}, ErrInternal
	}
	return s, nil
}

// PostToCandidates notifies active candidates about an imported job. With
// target skills only candidates listing one of them are reached. Locations
// are accepted but not filtered on since profiles carry none.
func (u *LinkedIn) PostToCandidates(ctx context.Context, in PostToCandidatesInput) (PostToCandidatesResult, error) {
	j, err := u.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return PostToCandidatesResult{}, ErrLinkedInJobMissing
		}
		return PostToCandidatesResult{}, ErrInternal
	}
	if j.Source != job.SourceLinkedIn {
		return PostToCandidatesResult{}, ErrLinkedInJobMissing
	}

	candidates, err := u.users.List(ctx, user.ListFilter{
		Role:      user.RoleCandidate,
		Status:    user.StatusActive,
		AnySkills: cleanList(in.TargetSkills),
	})
	if err != nil {
		return PostToCandidatesResult{}, ErrInternal
	}
	if len(candidates) == 0 {
		return PostToCandidatesResult{Job: &j}, nil
	}

	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		msg = fmt.Sprintf("A new job opportunity matching your profile has been posted: %s at %s", j.Title, j.Company)
	}
	jobID := j.ID
	items := make([]notification.Notification, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, notification.Notification{
			UserID:  c.ID,
			Type:    notification.TypeLinkedInJob,
			Title:   fmt.Sprintf(linkedInNotifTitleFmt, j.Title),
			Message: msg,
			JobID:   &jobID,
		})
	}
	if _, err := u.notifier.Send(ctx, items); err != nil {
		return PostToCandidatesResult{}, err
	}
	if err := u.jobs.MarkPostedToCandidates(ctx, j.ID, len(candidates), u.now().UTC()); err != nil {
		return PostToCandidatesResult{}, ErrInternal
	}
	u.logger.Printf("[LinkedIn] job posted to candidates | job=%s notified=%d", j.ID, len(candidates))
	return PostToCandidatesResult{CandidatesNotified: len(candidates), Job: &j}, nil
}

func (u *LinkedIn) Candidates(ctx context.Context, skills []string) ([]user.User, error) {
	users, err := u.users.List(ctx, user.ListFilter{
		Role:      user.RoleCandidate,
		Status:    user.StatusActive,
		AnySkills: cleanList(skills),
		Limit:     candidateLookupLimit,
	})
	if err != nil {
		return nil, ErrInternal
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (u *LinkedIn) PostingHistory(ctx context.Context) ([]job.Job, error) {
	src := job.SourceLinkedIn
	posted := true
	jobs, err := u.jobs.List(ctx, job.ListFilter{
		Source:             &src,
		PostedToCandidates: &posted,
		OrderByPostedAt:    true,
		Limit:              postingHistoryLimit,
	})
	if err != nil {
		return nil, ErrInternal
	}
	return jobs, nil
}
