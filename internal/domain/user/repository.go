package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, f ListFilter) ([]User, error)

	UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (User, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (User, error)

	// ToggleSavedJob adds the job to the wishlist, or removes it when already
	// present, and reports whether it is saved afterwards.
	ToggleSavedJob(ctx context.Context, userID, jobID uuid.UUID) (bool, error)

	// DeleteCascade removes the user and everything hanging off it in one
	// transaction and returns the storage keys of uploaded resumes so the
	// caller can remove the files after commit.
	DeleteCascade(ctx context.Context, id uuid.UUID) ([]string, error)

	Count(ctx context.Context) (int, error)
	// CreatedPerDay returns creation counts for the last days days, oldest first.
	CreatedPerDay(ctx context.Context, days int) ([]int, error)
}
