package job

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("job not found")
	ErrDuplicateExternal = errors.New("external job already imported")
)

type Repository interface {
	Create(ctx context.Context, j Job) error
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	GetByExternalID(ctx context.Context, source Source, externalID string) (Job, error)
	List(ctx context.Context, f ListFilter) ([]Job, error)
	ListSavedBy(ctx context.Context, userID uuid.UUID) ([]Job, error)

	Update(ctx context.Context, j Job) error
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (Job, error)
	MarkPostedToCandidates(ctx context.Context, id uuid.UUID, notified int, at time.Time) error

	// DeleteCascade removes the job together with its applications, wishlist
	// entries and notifications in one transaction.
	DeleteCascade(ctx context.Context, id uuid.UUID) error

	Count(ctx context.Context, f ListFilter) (int, error)
	CreatedPerDay(ctx context.Context, days int) ([]int, error)
	// TopFirstSkills groups jobs by their first listed skill ("Other" when
	// none) and returns the most frequent groups.
	TopFirstSkills(ctx context.Context, limit int) ([]string, error)
	TopCompanies(ctx context.Context, source Source, limit int) ([]CompanyCount, error)
}
