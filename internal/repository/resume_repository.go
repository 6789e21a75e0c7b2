package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"job-portal/internal/database"
	"job-portal/internal/domain/resume"

	"github.com/google/uuid"
)

const resumeColumns = `id, user_id, title, type, template, content, data, file_url, file_name, storage_key,
	is_active, created_at, updated_at`

type PostgresResumeRepository struct {
	db database.DB
}

func NewPostgresResumeRepository(db database.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

var _ resume.Repository = (*PostgresResumeRepository)(nil)

func (r *PostgresResumeRepository) CreateActive(ctx context.Context, res resume.Resume) error {
	res.IsActive = true
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if err := lockOwner(ctx, tx, res.UserID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE resumes SET is_active = FALSE, updated_at = now() WHERE user_id = $1 AND is_active`,
			res.UserID,
		); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO resumes (`+resumeColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, $11, $11)`,
			res.ID, res.UserID, res.Title, string(res.Type), res.Template, res.Content, jsonArg(res.Data),
			res.FileURL, res.FileName, res.StorageKey, res.CreatedAt,
		); err != nil {
			return err
		}
		return writeMirror(ctx, tx, res.UserID, &res)
	})
}

func (r *PostgresResumeRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (resume.Resume, error) {
	return scanResume(r.db.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
}

func (r *PostgresResumeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]resume.Resume, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]resume.Resume, 0)
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresResumeRepository) Activate(ctx context.Context, id, userID uuid.UUID) (resume.Resume, error) {
	var out resume.Resume
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if err := lockOwner(ctx, tx, userID); err != nil {
			return err
		}
		res, err := scanResume(tx.QueryRow(ctx,
			`SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND user_id = $2 FOR UPDATE`,
			id, userID,
		))
		if err != nil {
			return err
		}
		// The partial unique index is checked per statement, so the old active
		// row has to be cleared first.
		if _, err := tx.Exec(ctx,
			`UPDATE resumes SET is_active = FALSE, updated_at = now() WHERE user_id = $1 AND is_active AND id <> $2`,
			userID, id,
		); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE resumes SET is_active = TRUE, updated_at = now() WHERE id = $1`,
			id,
		); err != nil {
			return err
		}
		res.IsActive = true
		out = res
		return writeMirror(ctx, tx, userID, &res)
	})
	return out, err
}

func (r *PostgresResumeRepository) Delete(ctx context.Context, id, userID uuid.UUID) (resume.DeleteResult, error) {
	var result resume.DeleteResult
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if err := lockOwner(ctx, tx, userID); err != nil {
			return err
		}
		res, err := scanResume(tx.QueryRow(ctx,
			`SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND user_id = $2 FOR UPDATE`,
			id, userID,
		))
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id); err != nil {
			return err
		}
		result.Deleted = res
		if !res.IsActive {
			return nil
		}

		next, err := scanResume(tx.QueryRow(ctx,
			`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1 FOR UPDATE`,
			userID,
		))
		if errors.Is(err, resume.ErrNotFound) {
			return writeMirror(ctx, tx, userID, nil)
		}
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE resumes SET is_active = TRUE, updated_at = now() WHERE id = $1`,
			next.ID,
		); err != nil {
			return err
		}
		next.IsActive = true
		result.Promoted = &next
		return writeMirror(ctx, tx, userID, &next)
	})
	return result, err
}

// lockOwner serializes writes that change which resume of a user is active.
func lockOwner(ctx context.Context, tx database.Tx, userID uuid.UUID) error {
	_, err := tx.Exec(ctx, `SELECT 1 FROM users WHERE id = $1 FOR UPDATE`, userID)
	return err
}

// writeMirror copies the active resume into the owner's profile, or clears
// both mirror columns when active is nil.
func writeMirror(ctx context.Context, tx database.Tx, userID uuid.UUID, active *resume.Resume) error {
	var (
		url  *string
		data []byte
	)
	if active != nil {
		u, snap := resume.Mirror(*active)
		url = u
		if snap != nil {
			b, err := json.Marshal(snap)
			if err != nil {
				return fmt.Errorf("encode resume snapshot: %w", err)
			}
			data = b
		}
	}
	_, err := tx.Exec(ctx,
		`UPDATE users SET resume_url = $2, resume_data = $3, updated_at = now() WHERE id = $1`,
		userID, url, jsonArg(data),
	)
	return err
}

func scanResume(row database.Row) (resume.Resume, error) {
	var (
		res  resume.Resume
		typ  string
		data []byte
	)
	err := row.Scan(
		&res.ID, &res.UserID, &res.Title, &typ, &res.Template, &res.Content, &data,
		&res.FileURL, &res.FileName, &res.StorageKey,
		&res.IsActive, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return resume.Resume{}, resume.ErrNotFound
		}
		return resume.Resume{}, err
	}
	res.Type = resume.Type(typ)
	if len(data) > 0 {
		res.Data = json.RawMessage(data)
	}
	return res, nil
}
