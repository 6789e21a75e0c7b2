package resume

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"job-portal/internal/domain/user"

	"github.com/google/uuid"
)

type Type string

const (
	TypeUploaded  Type = "uploaded"
	TypeGenerated Type = "generated"
)

type Resume struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Title  string
	Type   Type

	// Generated resumes.
	Template string
	Content  string
	Data     json.RawMessage

	// Uploaded resumes. FileURL is the public URL, StorageKey the object name
	// inside the configured storage.
	FileURL    string
	FileName   string
	StorageKey string

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Mirror returns the profile fields that must reflect r while it is the
// active resume. Exactly one of the two return values is non-nil.
func Mirror(r Resume) (*string, *user.ResumeSnapshot) {
	if r.Type == TypeUploaded {
		url := r.FileURL
		return &url, nil
	}
	return nil, &user.ResumeSnapshot{
		ID:          r.ID,
		Template:    r.Template,
		Content:     r.Content,
		GeneratedAt: r.CreatedAt,
		Data:        r.Data,
	}
}

type DeleteResult struct {
	Deleted Resume
	// Promoted is set when the deleted resume was active and another resume
	// took its place.
	Promoted *Resume
}

var ErrNotFound = errors.New("resume not found")

// Repository owns the single-active invariant: every write that changes which
// resume is active also rewrites the owner's profile mirror in the same
// transaction.
type Repository interface {
	// CreateActive stores r as the user's only active resume.
	CreateActive(ctx context.Context, r Resume) error
	GetForUser(ctx context.Context, id, userID uuid.UUID) (Resume, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Resume, error)
	Activate(ctx context.Context, id, userID uuid.UUID) (Resume, error)
	// Delete removes the resume. When it was active the most recently created
	// remaining resume is promoted, or the profile mirror is cleared.
	Delete(ctx context.Context, id, userID uuid.UUID) (DeleteResult, error)
}
