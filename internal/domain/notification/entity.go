package notification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeApplication Type = "application"
	TypeAdmin       Type = "admin"
	TypeSystem      Type = "system"
	TypeLinkedInJob Type = "linkedin_job"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      Type
	Title     string
	Message   string
	JobID     *uuid.UUID
	Read      bool
	CreatedAt time.Time
}

var ErrNotFound = errors.New("notification not found")

type Repository interface {
	CreateMany(ctx context.Context, items []Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]Notification, error)
	// MarkRead flags the notification as read when it belongs to userID.
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}
