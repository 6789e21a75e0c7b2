package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-portal/internal/database"
	"job-portal/internal/domain/job"

	"github.com/google/uuid"
)

const jobColumns = `j.id, j.title, j.description, j.salary, j.skills, j.type, j.location, j.employer_id, j.status,
	j.source, j.external_id, j.company, j.requirements, j.benefits, j.application_url, j.posted_date,
	j.posted_to_candidates, j.posted_at, j.candidates_notified, j.created_at, j.updated_at,
	COALESCE(e.name, ''), COALESCE(e.email, ''), COALESCE(e.company_name, ''),
	(SELECT count(*) FROM applications a WHERE a.job_id = j.id)`

const jobFrom = ` FROM jobs j LEFT JOIN users e ON e.id = j.employer_id`

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

var _ job.Repository = (*PostgresJobRepository)(nil)

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO jobs (
			id, title, description, salary, skills, type, location, employer_id, status,
			source, external_id, company, requirements, benefits, application_url, posted_date,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17)`,
		j.ID, j.Title, j.Description, j.Salary, nonNilStrings(j.Skills), string(j.Type), j.Location, j.EmployerID, string(j.Status),
		string(j.Source), j.ExternalID, j.Company, nonNilStrings(j.Requirements), nonNilStrings(j.Benefits), j.ApplicationURL, j.PostedDate,
		j.CreatedAt,
	)
	if errors.Is(err, database.ErrUniqueViolation) {
		return job.ErrDuplicateExternal
	}
	return err
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	return scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+jobFrom+` WHERE j.id = $1`, id))
}

func (r *PostgresJobRepository) GetByExternalID(ctx context.Context, source job.Source, externalID string) (job.Job, error) {
	return scanJob(r.db.QueryRow(ctx,
		`SELECT `+jobColumns+jobFrom+` WHERE j.source = $1 AND j.external_id = $2`,
		string(source), externalID,
	))
}

func (r *PostgresJobRepository) List(ctx context.Context, f job.ListFilter) ([]job.Job, error) {
	where, args := jobWhere(f)
	q := `SELECT ` + jobColumns + jobFrom + where
	if f.OrderByPostedAt {
		q += ` ORDER BY j.posted_at DESC NULLS LAST, j.created_at DESC`
	} else {
		q += ` ORDER BY j.created_at DESC`
	}
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return r.queryJobs(ctx, q, args...)
}

func (r *PostgresJobRepository) ListSavedBy(ctx context.Context, userID uuid.UUID) ([]job.Job, error) {
	return r.queryJobs(ctx,
		`SELECT `+jobColumns+jobFrom+`
		 JOIN saved_jobs s ON s.job_id = j.id
		 WHERE s.user_id = $1
		 ORDER BY s.created_at DESC`,
		userID,
	)
}

func (r *PostgresJobRepository) Update(ctx context.Context, j job.Job) error {
	n, err := r.db.Exec(ctx,
		`UPDATE jobs SET title = $2, description = $3, salary = $4, skills = $5, type = $6,
			location = $7, status = $8, updated_at = now()
		 WHERE id = $1`,
		j.ID, j.Title, j.Description, j.Salary, nonNilStrings(j.Skills), string(j.Type), j.Location, string(j.Status),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) SetStatus(ctx context.Context, id uuid.UUID, status job.Status) (job.Job, error) {
	n, err := r.db.Exec(ctx, `UPDATE jobs SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return job.Job{}, err
	}
	if n == 0 {
		return job.Job{}, job.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresJobRepository) MarkPostedToCandidates(ctx context.Context, id uuid.UUID, notified int, at time.Time) error {
	n, err := r.db.Exec(ctx,
		`UPDATE jobs SET posted_to_candidates = TRUE, posted_at = $2, candidates_notified = $3, updated_at = now()
		 WHERE id = $1`,
		id, at, notified,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		steps := []string{
			`DELETE FROM applications WHERE job_id = $1`,
			`DELETE FROM saved_jobs WHERE job_id = $1`,
			`DELETE FROM notifications WHERE job_id = $1`,
		}
		for _, q := range steps {
			if _, err := tx.Exec(ctx, q, id); err != nil {
				return err
			}
		}
		n, err := tx.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return job.ErrNotFound
		}
		return nil
	})
}

func (r *PostgresJobRepository) Count(ctx context.Context, f job.ListFilter) (int, error) {
	where, args := jobWhere(f)
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM jobs j`+where, args...).Scan(&n)
	return n, err
}

func (r *PostgresJobRepository) CreatedPerDay(ctx context.Context, days int) ([]int, error) {
	return createdPerDay(ctx, r.db, "jobs", days)
}

func (r *PostgresJobRepository) TopFirstSkills(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT COALESCE(skills[1], 'Other') AS skill, count(*) AS n
		 FROM jobs
		 GROUP BY 1
		 ORDER BY n DESC, skill
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0, limit)
	for rows.Next() {
		var (
			skill string
			n     int
		)
		if err := rows.Scan(&skill, &n); err != nil {
			return nil, err
		}
		out = append(out, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) TopCompanies(ctx context.Context, source job.Source, limit int) ([]job.CompanyCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT company, count(*) AS n
		 FROM jobs
		 WHERE source = $1
		 GROUP BY company
		 ORDER BY n DESC, company
		 LIMIT $2`,
		string(source), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.CompanyCount, 0, limit)
	for rows.Next() {
		var c job.CompanyCount
		if err := rows.Scan(&c.Company, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) queryJobs(ctx context.Context, q string, args ...any) ([]job.Job, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func jobWhere(f job.ListFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.Status != nil {
		add("j.status = $%d", string(*f.Status))
	}
	if f.EmployerID != nil {
		add("j.employer_id = $%d", *f.EmployerID)
	}
	if f.Source != nil {
		add("j.source = $%d", string(*f.Source))
	}
	if t := strings.TrimSpace(f.Title); t != "" {
		add("j.title ILIKE '%%' || $%d || '%%'", t)
	}
	if l := strings.TrimSpace(f.Location); l != "" {
		add("j.location ILIKE '%%' || $%d || '%%'", l)
	}
	if f.Type != nil {
		add("j.type = $%d", string(*f.Type))
	}
	if len(f.AnySkills) > 0 {
		add("j.skills && $%d::text[]", f.AnySkills)
	}
	if f.PostedToCandidates != nil {
		add("j.posted_to_candidates = $%d", *f.PostedToCandidates)
	}
	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func scanJob(row database.Row) (job.Job, error) {
	var (
		j      job.Job
		typ    string
		status string
		source string
	)
	err := row.Scan(
		&j.ID, &j.Title, &j.Description, &j.Salary, &j.Skills, &typ, &j.Location, &j.EmployerID, &status,
		&source, &j.ExternalID, &j.Company, &j.Requirements, &j.Benefits, &j.ApplicationURL, &j.PostedDate,
		&j.PostedToCandidates, &j.PostedAt, &j.CandidatesNotified, &j.CreatedAt, &j.UpdatedAt,
		&j.EmployerName, &j.EmployerEmail, &j.EmployerCompany,
		&j.ApplicantCount,
	)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	j.Type = job.Type(typ)
	j.Status = job.Status(status)
	j.Source = job.Source(source)
	return j, nil
}
