package seeder

import (
	"context"
	"fmt"
	"time"

	"job-portal/internal/database"
	ucauth "job-portal/internal/usecase/auth"

	"github.com/google/uuid"
)

const demoPassword = "password123"

// DemoSeeder fills an empty development database with one employer, one
// candidate and a handful of open jobs.
type DemoSeeder struct{}

func (DemoSeeder) Name() string { return "demo" }

func (DemoSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "jobs", "id", "title", "description", "salary", "skills", "type", "location", "employer_id", "status", "created_at"); err != nil {
		return err
	}

	var jobs int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&jobs); err != nil {
		return err
	}
	if jobs > 0 {
		return nil
	}

	hash, err := ucauth.HashPassword(demoPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	now := time.Now().UTC()
	employerID := uuid.New()
	if _, err := tx.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, status, company_name, company_industry, company_website, created_at, updated_at)
		 VALUES ($1, 'Acme Hiring', 'employer@demo.local', $2, 'employer', 'active', 'Acme Corp', 'Software', 'https://acme.example', $3, $3)
		 ON CONFLICT (email) DO NOTHING`,
		employerID, hash, now,
	); err != nil {
		return err
	}
	if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE email = 'employer@demo.local'`).Scan(&employerID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, status, skills, experience, created_at, updated_at)
		 VALUES ($1, 'Casey Candidate', 'candidate@demo.local', $2, 'candidate', 'active', $3, '3 years building web apps', $4, $4)
		 ON CONFLICT (email) DO NOTHING`,
		uuid.New(), hash, []string{"JavaScript", "React", "Go"}, now,
	); err != nil {
		return err
	}

	items := []struct {
		Title    string
		Skills   []string
		Type     string
		Location string
		Salary   string
	}{
		{Title: "Frontend Engineer", Skills: []string{"JavaScript", "React", "CSS"}, Type: "Full-Time", Location: "Remote", Salary: "$90k - $120k"},
		{Title: "Backend Engineer (Go)", Skills: []string{"Go", "PostgreSQL", "Docker"}, Type: "Full-Time", Location: "Jakarta", Salary: "$100k - $130k"},
		{Title: "Fullstack Developer", Skills: []string{"JavaScript", "React", "Node.js"}, Type: "Contract", Location: "Singapore", Salary: "$70/hour"},
		{Title: "Data Engineering Intern", Skills: []string{"Python", "SQL"}, Type: "Internship", Location: "Remote", Salary: "Stipend"},
	}

	for i, it := range items {
		// Distinct timestamps keep the newest-first listings stable.
		created := now.Add(-time.Duration(len(items)-i) * time.Minute)
		if _, err := tx.Exec(ctx,
			`INSERT INTO jobs (id, title, description, salary, skills, type, location, employer_id, status, source, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'Open', 'portal', $9, $9)`,
			uuid.New(), it.Title, "Join Acme Corp as a "+it.Title+".", it.Salary, it.Skills, it.Type, it.Location, employerID, created,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
