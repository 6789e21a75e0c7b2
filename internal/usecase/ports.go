package usecase

import (
	"context"
	"io"

	"job-portal/internal/infrastructure/linkedin"

	"github.com/google/uuid"
)

type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// Pusher delivers live events to a connected user.
type Pusher interface {
	Notify(userID uuid.UUID, eventType string, v any)
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, v any) error
}

type SessionCounter interface {
	ClientCount() int
}

type FileStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

type SkillExtractor interface {
	Extract(text string) []string
}

type ExternalJobSearcher interface {
	Search(ctx context.Context, q linkedin.Query) ([]linkedin.Job, error)
}
