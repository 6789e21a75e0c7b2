package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"job-portal/internal/database"
	"job-portal/internal/domain/application"

	"github.com/google/uuid"
)

const applicationColumns = `a.id, a.candidate_id, a.job_id, a.status, a.resume_url, a.match_percent, a.created_at, a.updated_at,
	j.title, j.employer_id, j.skills, COALESCE(e.name, ''), CASE WHEN j.company <> '' THEN j.company ELSE COALESCE(e.company_name, '') END,
	c.name, c.email, c.skills, c.experience`

const applicationFrom = ` FROM applications a
	JOIN jobs j ON j.id = a.job_id
	JOIN users c ON c.id = a.candidate_id
	LEFT JOIN users e ON e.id = j.employer_id`

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

var _ application.Repository = (*PostgresApplicationRepository)(nil)

func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (id, candidate_id, job_id, status, resume_url, match_percent, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		a.ID, a.CandidateID, a.JobID, string(a.Status), a.ResumeURL, a.MatchPercent, a.CreatedAt,
	)
	if errors.Is(err, database.ErrUniqueViolation) {
		return application.ErrAlreadyApplied
	}
	return err
}

func (r *PostgresApplicationRepository) Exists(ctx context.Context, candidateID, jobID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE candidate_id = $1 AND job_id = $2)`,
		candidateID, jobID,
	).Scan(&exists)
	return exists, err
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, `SELECT `+applicationColumns+applicationFrom+` WHERE a.id = $1`, id))
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status) (application.Application, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE applications SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return application.Application{}, err
	}
	if n == 0 {
		return application.Application{}, application.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresApplicationRepository) List(ctx context.Context, f application.ListFilter) ([]application.Application, error) {
	where, args := applicationWhere(f)
	rows, err := r.db.Query(ctx,
		`SELECT `+applicationColumns+applicationFrom+where+` ORDER BY a.created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) Count(ctx context.Context, f application.ListFilter) (int, error) {
	where, args := applicationWhere(f)
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM applications a JOIN jobs j ON j.id = a.job_id`+where,
		args...,
	).Scan(&n)
	return n, err
}

func applicationWhere(f application.ListFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.CandidateID != nil {
		add("a.candidate_id = $%d", *f.CandidateID)
	}
	if f.EmployerID != nil {
		add("j.employer_id = $%d", *f.EmployerID)
	}
	if f.JobID != nil {
		add("a.job_id = $%d", *f.JobID)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		add("a.status = ANY($%d::text[])", statuses)
	}
	if f.JobSource != "" {
		add("j.source = $%d", f.JobSource)
	}
	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func scanApplication(row database.Row) (application.Application, error) {
	var (
		a      application.Application
		status string
	)
	err := row.Scan(
		&a.ID, &a.CandidateID, &a.JobID, &status, &a.ResumeURL, &a.MatchPercent, &a.CreatedAt, &a.UpdatedAt,
		&a.JobTitle, &a.JobEmployerID, &a.JobSkills, &a.EmployerName, &a.CompanyName,
		&a.CandidateName, &a.CandidateEmail, &a.CandidateSkills, &a.CandidateExp,
	)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	return a, nil
}
