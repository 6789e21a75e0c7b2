package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"job-portal/internal/database"
	"job-portal/internal/domain/resume"
	"job-portal/internal/domain/user"

	"github.com/google/uuid"
)

const userColumns = `u.id, u.name, u.email, u.password_hash, u.role, u.status,
	u.skills, u.experience, u.resume_url, u.linkedin, u.resume_data,
	u.company_name, u.company_industry, u.company_about, u.company_website,
	u.created_at, u.updated_at`

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var _ user.Repository = (*PostgresUserRepository)(nil)

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, status, skills, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), string(u.Status), nonNilStrings(u.Profile.Skills), u.CreatedAt,
	)
	if errors.Is(err, database.ErrUniqueViolation) {
		return user.ErrEmailTaken
	}
	return err
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.email = $1`, email))
}

func (r *PostgresUserRepository) List(ctx context.Context, f user.ListFilter) ([]user.User, error) {
	var (
		where []string
		args  []any
	)
	if f.Role != "" {
		args = append(args, string(f.Role))
		where = append(where, fmt.Sprintf("u.role = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("u.status = $%d", len(args)))
	}
	if len(f.AnySkills) > 0 {
		args = append(args, f.AnySkills)
		where = append(where, fmt.Sprintf("u.skills && $%d::text[]", len(args)))
	}

	q := `SELECT ` + userColumns + ` FROM users u`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY u.created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, upd user.ProfileUpdate) (user.User, error) {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.Skills != nil {
		set("skills", nonNilStrings(*upd.Skills))
	}
	if upd.Experience != nil {
		set("experience", *upd.Experience)
	}
	if upd.LinkedIn != nil {
		set("linkedin", *upd.LinkedIn)
	}
	if upd.CompanyName != nil {
		set("company_name", *upd.CompanyName)
	}
	if upd.CompanyIndustry != nil {
		set("company_industry", *upd.CompanyIndustry)
	}
	if upd.CompanyAbout != nil {
		set("company_about", *upd.CompanyAbout)
	}
	if upd.CompanyWebsite != nil {
		set("company_website", *upd.CompanyWebsite)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE users u SET %s, updated_at = now() WHERE u.id = $%d RETURNING `+userColumns,
		strings.Join(sets, ", "), len(args))
	return scanUser(r.db.QueryRow(ctx, q, args...))
}

func (r *PostgresUserRepository) SetStatus(ctx context.Context, id uuid.UUID, status user.Status) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`UPDATE users u SET status = $2, updated_at = now() WHERE u.id = $1 RETURNING `+userColumns,
		id, string(status),
	))
}

func (r *PostgresUserRepository) ToggleSavedJob(ctx context.Context, userID, jobID uuid.UUID) (bool, error) {
	saved := false
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		n, err := tx.Exec(ctx, `DELETE FROM saved_jobs WHERE user_id = $1 AND job_id = $2`, userID, jobID)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO saved_jobs (user_id, job_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, jobID,
		); err != nil {
			return err
		}
		saved = true
		return nil
	})
	return saved, err
}

func (r *PostgresUserRepository) DeleteCascade(ctx context.Context, id uuid.UUID) ([]string, error) {
	var keys []string
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT true FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&exists); err != nil {
			if errors.Is(err, database.ErrNoRows) {
				return user.ErrNotFound
			}
			return err
		}

		const ownedJobs = `SELECT id FROM jobs WHERE employer_id = $1`
		steps := []string{
			`DELETE FROM applications WHERE candidate_id = $1 OR job_id IN (` + ownedJobs + `)`,
			`DELETE FROM saved_jobs WHERE user_id = $1 OR job_id IN (` + ownedJobs + `)`,
			`DELETE FROM notifications WHERE user_id = $1 OR job_id IN (` + ownedJobs + `)`,
		}
		for _, q := range steps {
			if _, err := tx.Exec(ctx, q, id); err != nil {
				return err
			}
		}

		rows, err := tx.Query(ctx,
			`DELETE FROM resumes WHERE user_id = $1 RETURNING type, storage_key`, id)
		if err != nil {
			return err
		}
		for rows.Next() {
			var typ, key string
			if err := rows.Scan(&typ, &key); err != nil {
				rows.Close()
				return err
			}
			if resume.Type(typ) == resume.TypeUploaded && key != "" {
				keys = append(keys, key)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM jobs WHERE employer_id = $1`, id); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *PostgresUserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}

func (r *PostgresUserRepository) CreatedPerDay(ctx context.Context, days int) ([]int, error) {
	return createdPerDay(ctx, r.db, "users", days)
}

func scanUser(row database.Row) (user.User, error) {
	var (
		u          user.User
		role       string
		status     string
		resumeData []byte
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &status,
		&u.Profile.Skills, &u.Profile.Experience, &u.Profile.ResumeURL, &u.Profile.LinkedIn, &resumeData,
		&u.Company.Name, &u.Company.Industry, &u.Company.About, &u.Company.Website,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Role = user.Role(role)
	u.Status = user.Status(status)
	if len(resumeData) > 0 {
		var snap user.ResumeSnapshot
		if err := json.Unmarshal(resumeData, &snap); err != nil {
			return user.User{}, fmt.Errorf("decode resume_data: %w", err)
		}
		u.Profile.ResumeData = &snap
	}
	return u, nil
}
