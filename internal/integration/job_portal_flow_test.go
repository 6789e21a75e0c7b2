package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"job-portal/internal/app"
	"job-portal/internal/config"
	"job-portal/internal/database"
	"job-portal/internal/database/migration"
	dbpostgres "job-portal/internal/database/postgres"
	"job-portal/internal/database/seeder"
	"job-portal/internal/domain/job"
	"job-portal/internal/infrastructure/linkedin"
	"job-portal/internal/infrastructure/storage"
	"job-portal/internal/pkg/jwt"
	"job-portal/internal/repository"
	"job-portal/internal/usecase"
	"job-portal/internal/ws"
	"job-portal/migrations"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fixture struct {
	app   *fiber.App
	db    database.DB
	tag   string
	users []string
}

func TestIntegration_ApplyFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	f := newFixture(t, ctx)

	employer := f.registerAndLogin(t, "employer")
	candidate := f.registerAndLogin(t, "candidate")

	status, sr := f.call(t, "PUT", "/api/users/profile", candidate, map[string]any{"skills": "JavaScript, React"})
	if status != 200 {
		t.Fatalf("update profile: expected 200, got %d (%s)", status, sr.Message)
	}

	status, sr = f.call(t, "POST", "/api/jobs", candidate, map[string]any{"title": "Nope"})
	if status != 403 || sr.Message != "Only employers can post jobs" {
		t.Fatalf("candidate post: expected 403, got %d (%s)", status, sr.Message)
	}

	status, sr = f.call(t, "POST", "/api/jobs", employer, map[string]any{
		"title":    "Frontend Engineer " + f.tag,
		"skills":   []string{"JavaScript", "React", "CSS"},
		"location": "Remote",
	})
	if status != 201 {
		t.Fatalf("create job: expected 201, got %d (%s)", status, sr.Message)
	}
	var created struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
		Type   string    `json:"type"`
	}
	mustDecode(t, sr.Data, &created)
	if created.Status != "Open" || created.Type != "Full-Time" {
		t.Fatalf("create job: expected Open Full-Time defaults, got %+v", created)
	}
	t.Cleanup(func() {
		_ = repository.NewPostgresJobRepository(f.db).DeleteCascade(context.Background(), created.ID)
	})

	status, sr = f.call(t, "GET", "/api/jobs?title="+f.tag, "", nil)
	if status != 200 {
		t.Fatalf("list jobs: expected 200, got %d", status)
	}
	var listed []struct {
		ID uuid.UUID `json:"id"`
	}
	mustDecode(t, sr.Data, &listed)
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("list jobs: expected the new job only, got %s", sr.Data)
	}

	status, sr = f.call(t, "GET", "/api/users/recommended-jobs", candidate, nil)
	if status != 200 {
		t.Fatalf("recommended: expected 200, got %d (%s)", status, sr.Message)
	}
	var recs []struct {
		ID    uuid.UUID `json:"id"`
		Match int       `json:"match"`
	}
	mustDecode(t, sr.Data, &recs)
	found := false
	for i, r := range recs {
		if i > 0 && r.Match > recs[i-1].Match {
			t.Fatalf("recommended: expected descending match, got %s", sr.Data)
		}
		if r.ID == created.ID {
			found = true
			if r.Match != 67 {
				t.Fatalf("recommended: expected 67%% match, got %d", r.Match)
			}
		}
	}
	if !found {
		t.Fatalf("recommended: expected the new job, got %s", sr.Data)
	}

	apply := map[string]any{"jobId": created.ID.String()}
	if status, sr = f.call(t, "POST", "/api/applications/apply", candidate, apply); status != 201 {
		t.Fatalf("apply: expected 201, got %d (%s)", status, sr.Message)
	}
	var applied struct {
		ID           uuid.UUID `json:"id"`
		MatchPercent int       `json:"matchPercent"`
	}
	mustDecode(t, sr.Data, &applied)
	if applied.MatchPercent != 67 {
		t.Fatalf("apply: expected 67%% match snapshot, got %d", applied.MatchPercent)
	}

	status, sr = f.call(t, "POST", "/api/applications/apply", candidate, apply)
	if status != 400 || sr.Message != "You have already applied for this job" {
		t.Fatalf("second apply: expected 400, got %d (%s)", status, sr.Message)
	}

	status, sr = f.call(t, "GET", "/api/users/notifications", employer, nil)
	if status != 200 {
		t.Fatalf("employer notifications: expected 200, got %d", status)
	}
	if !strings.Contains(string(sr.Data), "New Application") {
		t.Fatalf("employer notifications: expected a new application notice, got %s", sr.Data)
	}

	status, sr = f.call(t, "PUT", "/api/applications/"+applied.ID.String()+"/status", employer, map[string]any{"status": "Shortlisted"})
	if status != 200 {
		t.Fatalf("update status: expected 200, got %d (%s)", status, sr.Message)
	}

	status, sr = f.call(t, "GET", "/api/applications/my-applications", candidate, nil)
	if status != 200 || !strings.Contains(string(sr.Data), "Shortlisted") {
		t.Fatalf("my applications: expected Shortlisted, got %d %s", status, sr.Data)
	}
}

func TestIntegration_LinkedInImportDedup(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	f := newFixture(t, ctx)
	jobs := repository.NewPostgresJobRepository(f.db)
	dropImported := func() {
		if j, err := jobs.GetByExternalID(context.Background(), job.SourceLinkedIn, "linkedin_2"); err == nil {
			_ = jobs.DeleteCascade(context.Background(), j.ID)
		}
	}
	dropImported()
	t.Cleanup(dropImported)

	admin := f.seedAdminAndLogin(t, ctx)

	status, sr := f.call(t, "POST", "/api/admin/linkedin/import/linkedin_2?keywords=react", admin, nil)
	if status != 201 {
		t.Fatalf("import: expected 201, got %d (%s)", status, sr.Message)
	}

	status, sr = f.call(t, "POST", "/api/admin/linkedin/import/linkedin_2?keywords=react", admin, nil)
	if status != 400 {
		t.Fatalf("second import: expected 400, got %d (%s)", status, sr.Message)
	}
	var dup struct {
		Duplicate bool `json:"duplicate"`
		Success   bool `json:"success"`
	}
	mustDecode(t, sr.Data, &dup)
	if !dup.Duplicate || dup.Success {
		t.Fatalf("second import: expected duplicate result, got %s", sr.Data)
	}

	candidate := f.registerAndLogin(t, "candidate")
	status, sr = f.call(t, "GET", "/api/admin/linkedin/stats", candidate, nil)
	if status != 403 {
		t.Fatalf("candidate stats: expected 403, got %d (%s)", status, sr.Message)
	}
}

func newFixture(t *testing.T, ctx context.Context) *fixture {
	t.Helper()

	db := connectTestDB(t, ctx)
	t.Cleanup(func() { _ = db.Close() })

	r := migration.Runner{Source: migrations.FS}
	if err := r.Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	f := &fixture{db: db, tag: strings.ReplaceAll(uuid.NewString()[:8], "-", "")}
	f.app = newTestFiberApp(t, db)
	t.Cleanup(func() {
		for _, email := range f.users {
			_, _ = db.Exec(context.Background(), `DELETE FROM notifications WHERE user_id IN (SELECT id FROM users WHERE email = $1)`, email)
			_, _ = db.Exec(context.Background(), `DELETE FROM applications WHERE candidate_id IN (SELECT id FROM users WHERE email = $1)`, email)
			_, _ = db.Exec(context.Background(), `DELETE FROM resumes WHERE user_id IN (SELECT id FROM users WHERE email = $1)`, email)
			_, _ = db.Exec(context.Background(), `DELETE FROM users WHERE email = $1`, email)
		}
	})
	return f
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := stringsOrDefault(os.Getenv("JOBPORTAL_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("JOBPORTAL_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("JOBPORTAL_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("JOBPORTAL_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("JOBPORTAL_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("JOBPORTAL_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set JOBPORTAL_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}

	db, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		DBHost:         host,
		DBPort:         port,
		DBName:         name,
		DBUser:         user,
		DBPassword:     pass,
		DBSSLMode:      stringsOrDefault(ssl, "disable"),
		ConnectTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

// newTestFiberApp wires the real HTTP stack without Redis, a broker or
// Chrome. Uploads go to a temp dir.
func newTestFiberApp(t *testing.T, db database.DB) *fiber.App {
	t.Helper()

	logger := log.New(io.Discard, "", 0)
	store, err := storage.NewLocalStore(t.TempDir(), "/uploads/resumes")
	if err != nil {
		t.Fatalf("local store: %v", err)
	}

	c := &app.Container{
		Config: config.Config{
			App:     config.AppConfig{AppName: "JobPortal", Environment: "test", HTTPPort: "0"},
			JWT:     config.JWTConfig{Secret: "integration-secret", ExpiresIn: 2 * time.Hour},
			Storage: config.StorageConfig{MaxUploadBytes: 5 << 20},
		},
		Logger: logger,
		DB:     db,
		Hub:    ws.NewHub(logger),
		JWT:    jwt.NewHMACService("integration-secret", 2*time.Hour),
		Store:  store,

		Users:         repository.NewPostgresUserRepository(db),
		Jobs:          repository.NewPostgresJobRepository(db),
		Applications:  repository.NewPostgresApplicationRepository(db),
		Resumes:       repository.NewPostgresResumeRepository(db),
		Notifications: repository.NewPostgresNotificationRepository(db),
	}

	vocab := linkedin.DefaultVocabulary()
	searcher := linkedin.NewClient(linkedin.Config{}, vocab, logger)

	c.NotificationUC = usecase.NewNotifications(c.Notifications, c.Hub, nil, logger)
	c.AuthUC = usecase.NewAuthUsecase(c.Users, c.JWT, nil, logger)
	c.UserUC = usecase.NewUserUsecase(c.Users, c.Jobs)
	c.JobUC = usecase.NewJobUsecase(c.Jobs)
	c.ApplicationUC = usecase.NewApplicationUsecase(c.Applications, c.Jobs, c.Users, c.NotificationUC, nil, logger)
	c.ResumeUC = usecase.NewResumeUsecase(c.Resumes, store, nil, vocab, c.Config.Storage.MaxUploadBytes, logger)
	c.AdminUC = usecase.NewAdminUsecase(c.Users, c.Jobs, c.Applications, c.NotificationUC, store, c.Hub, logger)
	c.LinkedInUC = usecase.NewLinkedInUsecase(searcher, c.Jobs, c.Users, c.Applications, c.NotificationUC, nil, logger)

	return app.New(c).Fiber
}

func (f *fixture) registerAndLogin(t *testing.T, role string) string {
	t.Helper()

	email := role + "-" + f.tag + "-" + uuid.NewString()[:6] + "@it.test"
	f.users = append(f.users, email)

	status, sr := f.call(t, "POST", "/api/auth/register", "", map[string]any{
		"name": "IT " + role, "email": email, "password": "password", "role": role,
	})
	if status != 201 {
		t.Fatalf("register %s: expected 201, got %d (%s)", role, status, sr.Message)
	}
	return f.login(t, email, "password")
}

func (f *fixture) seedAdminAndLogin(t *testing.T, ctx context.Context) string {
	t.Helper()

	email := "admin-" + f.tag + "@it.test"
	f.users = append(f.users, email)
	s := seeder.AdminSeeder{Email: email, Password: "admin-password", DisplayName: "IT Admin"}
	if err := (seeder.Runner{Seeders: []seeder.Seeder{s}}).Run(ctx, f.db); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return f.login(t, email, "admin-password")
}

func (f *fixture) login(t *testing.T, email, password string) string {
	t.Helper()

	status, sr := f.call(t, "POST", "/api/auth/login", "", map[string]any{"email": email, "password": password})
	if status != 200 || sr.Message != "Login successful" {
		t.Fatalf("login: expected 200 Login successful, got %d (%s)", status, sr.Message)
	}
	var data struct {
		Token string `json:"token"`
	}
	mustDecode(t, sr.Data, &data)
	if data.Token == "" {
		t.Fatalf("login: missing token")
	}
	return data.Token
}

func (f *fixture) call(t *testing.T, method, path, token string, body any) (int, semanticResponse) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: request error: %v", method, path, err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("%s %s: decode error: %v", method, path, err)
	}
	return resp.StatusCode, sr
}

func mustDecode(t *testing.T, raw json.RawMessage, out any) {
	t.Helper()
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode data: %v (%s)", err, raw)
	}
}

func stringsOrDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
