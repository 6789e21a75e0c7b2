package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"job-portal/internal/domain/application"
	"job-portal/internal/domain/job"
	"job-portal/internal/domain/notification"
	"job-portal/internal/domain/resume"
	"job-portal/internal/domain/user"
	"job-portal/internal/infrastructure/linkedin"
	"job-portal/internal/infrastructure/storage"

	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

type memUsers struct {
	user.Repository

	mu      sync.Mutex
	byID    map[uuid.UUID]user.User
	saved   map[uuid.UUID]map[uuid.UUID]bool
	keys    map[uuid.UUID][]string
	listErr error
}

func newMemUsers(users ...user.User) *memUsers {
	m := &memUsers{byID: map[uuid.UUID]user.User{}, saved: map[uuid.UUID]map[uuid.UUID]bool{}, keys: map[uuid.UUID][]string{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, u user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) List(_ context.Context, f user.ListFilter) ([]user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []user.User
	for _, u := range m.byID {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if len(f.AnySkills) > 0 && !overlaps(u.Profile.Skills, f.AnySkills) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memUsers) SetStatus(_ context.Context, id uuid.UUID, s user.Status) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	u.Status = s
	m.byID[id] = u
	return u, nil
}

func (m *memUsers) ToggleSavedJob(_ context.Context, userID, jobID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved[userID] == nil {
		m.saved[userID] = map[uuid.UUID]bool{}
	}
	if m.saved[userID][jobID] {
		delete(m.saved[userID], jobID)
		return false, nil
	}
	m.saved[userID][jobID] = true
	return true, nil
}

func (m *memUsers) DeleteCascade(_ context.Context, id uuid.UUID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return nil, user.ErrNotFound
	}
	delete(m.byID, id)
	return m.keys[id], nil
}

func (m *memUsers) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID), nil
}

func (m *memUsers) CreatedPerDay(_ context.Context, days int) ([]int, error) {
	return make([]int, days), nil
}

// overlaps matches exact skill entries, like the array overlap the
// repository runs.
func overlaps(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

type memJobs struct {
	job.Repository

	mu      sync.Mutex
	byID    map[uuid.UUID]job.Job
	seq     int
	order   map[uuid.UUID]int
	posted  map[uuid.UUID]int
	deleted []uuid.UUID
}

func newMemJobs(jobs ...job.Job) *memJobs {
	m := &memJobs{byID: map[uuid.UUID]job.Job{}, order: map[uuid.UUID]int{}, posted: map[uuid.UUID]int{}}
	for _, j := range jobs {
		m.put(j)
	}
	return m
}

func (m *memJobs) put(j job.Job) {
	m.seq++
	m.byID[j.ID] = j
	m.order[j.ID] = m.seq
}

func (m *memJobs) Create(_ context.Context, j job.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j.ExternalID != nil {
		for _, have := range m.byID {
			if have.Source == j.Source && have.ExternalID != nil && *have.ExternalID == *j.ExternalID {
				return job.ErrDuplicateExternal
			}
		}
	}
	m.put(j)
	return nil
}

func (m *memJobs) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.byID[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	return j, nil
}

func (m *memJobs) GetByExternalID(_ context.Context, src job.Source, ext string) (job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.byID {
		if j.Source == src && j.ExternalID != nil && *j.ExternalID == ext {
			return j, nil
		}
	}
	return job.Job{}, job.ErrNotFound
}

func (m *memJobs) List(_ context.Context, f job.ListFilter) ([]job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []job.Job
	for _, j := range m.byID {
		if f.Status != nil && j.Status != *f.Status {
			continue
		}
		if f.EmployerID != nil && j.EmployerID != *f.EmployerID {
			continue
		}
		if f.Source != nil && j.Source != *f.Source {
			continue
		}
		if f.Title != "" && !strings.Contains(strings.ToLower(j.Title), strings.ToLower(f.Title)) {
			continue
		}
		if f.Type != nil && j.Type != *f.Type {
			continue
		}
		if len(f.AnySkills) > 0 && !overlaps(j.Skills, f.AnySkills) {
			continue
		}
		if f.PostedToCandidates != nil && j.PostedToCandidates != *f.PostedToCandidates {
			continue
		}
		out = append(out, j)
	}
	sort.Slice(out, func(a, b int) bool { return m.order[out[a].ID] > m.order[out[b].ID] })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memJobs) Update(_ context.Context, j job.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[j.ID]; !ok {
		return job.ErrNotFound
	}
	m.byID[j.ID] = j
	return nil
}

func (m *memJobs) SetStatus(_ context.Context, id uuid.UUID, s job.Status) (job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.byID[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	j.Status = s
	m.byID[id] = j
	return j, nil
}

func (m *memJobs) MarkPostedToCandidates(_ context.Context, id uuid.UUID, n int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.byID[id]
	if !ok {
		return job.ErrNotFound
	}
	j.PostedToCandidates = true
	j.PostedAt = &at
	j.CandidatesNotified = n
	m.byID[id] = j
	m.posted[id] = n
	return nil
}

func (m *memJobs) DeleteCascade(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return job.ErrNotFound
	}
	delete(m.byID, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *memJobs) Count(ctx context.Context, f job.ListFilter) (int, error) {
	jobs, err := m.List(ctx, f)
	return len(jobs), err
}

func (m *memJobs) CreatedPerDay(_ context.Context, days int) ([]int, error) {
	return make([]int, days), nil
}

func (m *memJobs) TopFirstSkills(context.Context, int) ([]string, error) {
	return []string{"Go"}, nil
}

func (m *memJobs) TopCompanies(context.Context, job.Source, int) ([]job.CompanyCount, error) {
	return []job.CompanyCount{{Company: "TechCorp", Count: 1}}, nil
}

type memApps struct {
	application.Repository

	mu    sync.Mutex
	items []application.Application
	jobs  *memJobs
	users *memUsers
}

func (m *memApps) Exists(_ context.Context, candidateID, jobID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.CandidateID == candidateID && a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memApps) Create(ctx context.Context, a application.Application) error {
	if ok, _ := m.Exists(ctx, a.CandidateID, a.JobID); ok {
		return application.ErrAlreadyApplied
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, a)
	return nil
}

func (m *memApps) hydrate(a application.Application) application.Application {
	if j, err := m.jobs.GetByID(context.Background(), a.JobID); err == nil {
		a.JobTitle = j.Title
		a.JobEmployerID = j.EmployerID
		a.JobSkills = j.Skills
	}
	if c, err := m.users.GetByID(context.Background(), a.CandidateID); err == nil {
		a.CandidateName = c.Name
	}
	return a
}

func (m *memApps) GetByID(_ context.Context, id uuid.UUID) (application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.ID == id {
			return m.hydrate(a), nil
		}
	}
	return application.Application{}, application.ErrNotFound
}

func (m *memApps) UpdateStatus(_ context.Context, id uuid.UUID, s application.Status) (application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.items {
		if a.ID == id {
			m.items[i].Status = s
			return m.hydrate(m.items[i]), nil
		}
	}
	return application.Application{}, application.ErrNotFound
}

func (m *memApps) List(_ context.Context, f application.ListFilter) ([]application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []application.Application
	for i := len(m.items) - 1; i >= 0; i-- {
		a := m.hydrate(m.items[i])
		if f.CandidateID != nil && a.CandidateID != *f.CandidateID {
			continue
		}
		if f.JobID != nil && a.JobID != *f.JobID {
			continue
		}
		if f.EmployerID != nil && a.JobEmployerID != *f.EmployerID {
			continue
		}
		if len(f.Statuses) > 0 {
			keep := false
			for _, s := range f.Statuses {
				keep = keep || a.Status == s
			}
			if !keep {
				continue
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memApps) Count(ctx context.Context, f application.ListFilter) (int, error) {
	items, err := m.List(ctx, f)
	return len(items), err
}

type memNotifications struct {
	mu    sync.Mutex
	items []notification.Notification
	err   error
}

func (m *memNotifications) CreateMany(_ context.Context, items []notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, items...)
	return nil
}

func (m *memNotifications) ListForUser(_ context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []notification.Notification
	for i := len(m.items) - 1; i >= 0 && len(out) < limit; i-- {
		if m.items[i].UserID == userID {
			out = append(out, m.items[i])
		}
	}
	return out, nil
}

func (m *memNotifications) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.items {
		if n.ID == id && n.UserID == userID {
			m.items[i].Read = true
			return nil
		}
	}
	return notification.ErrNotFound
}

func (m *memNotifications) forUser(id uuid.UUID) []notification.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []notification.Notification
	for _, n := range m.items {
		if n.UserID == id {
			out = append(out, n)
		}
	}
	return out
}

type recordingPusher struct {
	mu     sync.Mutex
	pushed map[uuid.UUID]int
}

func (p *recordingPusher) Notify(userID uuid.UUID, _ string, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pushed == nil {
		p.pushed = map[uuid.UUID]int{}
	}
	p.pushed[userID]++
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return p.err
}

// memResumes keeps the single-active rule and the profile mirror the way the
// Postgres repository does.
type memResumes struct {
	mu    sync.Mutex
	items []resume.Resume
	users *memUsers
	err   error
}

func (m *memResumes) mirror(userID uuid.UUID, r *resume.Resume) {
	m.users.mu.Lock()
	defer m.users.mu.Unlock()
	u := m.users.byID[userID]
	u.Profile.ResumeURL, u.Profile.ResumeData = nil, nil
	if r != nil {
		u.Profile.ResumeURL, u.Profile.ResumeData = resume.Mirror(*r)
	}
	m.users.byID[userID] = u
}

func (m *memResumes) activeFor(userID uuid.UUID) []resume.Resume {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []resume.Resume
	for _, r := range m.items {
		if r.UserID == userID && r.IsActive {
			out = append(out, r)
		}
	}
	return out
}

func (m *memResumes) CreateActive(_ context.Context, r resume.Resume) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i := range m.items {
		if m.items[i].UserID == r.UserID {
			m.items[i].IsActive = false
		}
	}
	r.IsActive = true
	m.items = append(m.items, r)
	m.mirror(r.UserID, &r)
	return nil
}

func (m *memResumes) GetForUser(_ context.Context, id, userID uuid.UUID) (resume.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.items {
		if r.ID == id && r.UserID == userID {
			return r, nil
		}
	}
	return resume.Resume{}, resume.ErrNotFound
}

func (m *memResumes) ListByUser(_ context.Context, userID uuid.UUID) ([]resume.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []resume.Resume
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].UserID == userID {
			out = append(out, m.items[i])
		}
	}
	return out, nil
}

func (m *memResumes) Activate(_ context.Context, id, userID uuid.UUID) (resume.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := -1
	for i, r := range m.items {
		if r.ID == id && r.UserID == userID {
			idx = i
		}
	}
	if idx < 0 {
		return resume.Resume{}, resume.ErrNotFound
	}
	for i := range m.items {
		if m.items[i].UserID == userID {
			m.items[i].IsActive = i == idx
		}
	}
	r := m.items[idx]
	m.mirror(userID, &r)
	return r, nil
}

func (m *memResumes) Delete(_ context.Context, id, userID uuid.UUID) (resume.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := -1
	for i, r := range m.items {
		if r.ID == id && r.UserID == userID {
			idx = i
		}
	}
	if idx < 0 {
		return resume.DeleteResult{}, resume.ErrNotFound
	}
	res := resume.DeleteResult{Deleted: m.items[idx]}
	m.items = append(m.items[:idx], m.items[idx+1:]...)
	if !res.Deleted.IsActive {
		return res, nil
	}

	var remaining []resume.Resume
	for _, r := range m.items {
		if r.UserID == userID {
			remaining = append(remaining, r)
		}
	}
	next, ok := latestResume(remaining)
	if !ok {
		m.mirror(userID, nil)
		return res, nil
	}
	for i := range m.items {
		if m.items[i].ID == next.ID {
			m.items[i].IsActive = true
			next = m.items[i]
		}
	}
	res.Promoted = &next
	m.mirror(userID, &next)
	return res, nil
}

type memStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
	putErr  error
}

func newMemStore() *memStore { return &memStore{files: map[string][]byte{}} }

func (s *memStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = b
	return nil
}

func (s *memStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memStore) URL(key string) string { return "/uploads/resumes/" + key }

type fakeRenderer struct {
	html string
	err  error
}

func (r *fakeRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	r.html = html
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

type fakeSearcher struct {
	jobs  []linkedin.Job
	err   error
	calls []linkedin.Query
}

func (s *fakeSearcher) Search(_ context.Context, q linkedin.Query) ([]linkedin.Job, error) {
	s.calls = append(s.calls, q)
	if s.err != nil {
		return nil, s.err
	}
	if q.Limit > 0 && q.Limit < len(s.jobs) {
		return s.jobs[:q.Limit], nil
	}
	return s.jobs, nil
}

type fakeLimiter struct {
	allow  bool
	err    error
	resets []string
}

func (l *fakeLimiter) Allow(context.Context, string) (bool, error) { return l.allow, l.err }

func (l *fakeLimiter) Reset(_ context.Context, key string) error {
	l.resets = append(l.resets, key)
	return nil
}

type fixedSessions int

func (s fixedSessions) ClientCount() int { return int(s) }

func candidate(skills ...string) user.User {
	return user.User{
		ID:        uuid.New(),
		Name:      "Cara",
		Email:     "cara@x.io",
		Role:      user.RoleCandidate,
		Status:    user.StatusActive,
		Profile:   user.CandidateProfile{Skills: skills},
		CreatedAt: time.Now(),
	}
}

func employer() user.User {
	return user.User{ID: uuid.New(), Name: "Emma", Email: "emma@x.io", Role: user.RoleEmployer, Status: user.StatusActive, CreatedAt: time.Now()}
}

func admin() user.User {
	return user.User{ID: uuid.New(), Name: "Ada", Email: "ada@x.io", Role: user.RoleAdmin, Status: user.StatusActive, CreatedAt: time.Now()}
}

func actorOf(u user.User) user.Actor { return user.Actor{ID: u.ID, Role: u.Role} }

func openJob(owner uuid.UUID, title string, skills ...string) job.Job {
	return job.Job{
		ID:         uuid.New(),
		Title:      title,
		Skills:     skills,
		Type:       job.TypeFullTime,
		EmployerID: owner,
		Status:     job.StatusOpen,
		Source:     job.SourcePortal,
	}
}

// latestResume matches the repository's ORDER BY created_at DESC promotion.
func latestResume(items []resume.Resume) (resume.Resume, bool) {
	if len(items) == 0 {
		return resume.Resume{}, false
	}
	best := items[0]
	for _, r := range items[1:] {
		if r.CreatedAt.After(best.CreatedAt) {
			best = r
		}
	}
	return best, true
}
