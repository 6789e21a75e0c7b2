package repository

import (
	"context"
	"errors"

	"job-portal/internal/database"
	"job-portal/internal/domain/notification"

	"github.com/google/uuid"
)

type PostgresNotificationRepository struct {
	db database.DB
}

func NewPostgresNotificationRepository(db database.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

var _ notification.Repository = (*PostgresNotificationRepository)(nil)

// CreateMany inserts all items in one transaction.
func (r *PostgresNotificationRepository) CreateMany(ctx context.Context, items []notification.Notification) error {
	if len(items) == 0 {
		return nil
	}
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		for _, n := range items {
			if _, err := tx.Exec(ctx,
				`INSERT INTO notifications (id, user_id, type, title, message, job_id, read, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				n.ID, n.UserID, string(n.Type), n.Title, n.Message, n.JobID, n.Read, n.CreatedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresNotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, title, message, job_id, read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notification.Notification, 0)
	for rows.Next() {
		var (
			n   notification.Notification
			typ string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &n.JobID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Type = notification.Type(typ)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	var marked bool
	err := r.db.QueryRow(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2 RETURNING read`,
		id, userID,
	).Scan(&marked)
	if errors.Is(err, database.ErrNoRows) {
		return notification.ErrNotFound
	}
	return err
}
