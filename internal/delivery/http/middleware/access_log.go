package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	CtxRequestIDKey = "request_id"
)

type AccessLogMiddleware struct {
	logger *log.Logger
	skip   map[string]struct{}
}

// NewAccessLogMiddleware logs one line per request. Paths in skipPaths still
// get a request id but are not logged.
func NewAccessLogMiddleware(logger *log.Logger, skipPaths ...string) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return &AccessLogMiddleware{logger: logger, skip: skip}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)
		c.Locals(CtxRequestIDKey, rid)

		err := c.Next()

		if _, ok := m.skip[c.Path()]; ok {
			return err
		}

		// Errors are rendered by the error middleware further in, so the
		// status here is final.
		status := c.Response().StatusCode()
		uid := "-"
		if actor, ok := ActorFrom(c); ok {
			uid = actor.ID.String()
		}

		m.logger.Printf(
			"HTTP access | rid=%s ip=%s method=%s path=%s status=%d latency=%s user=%s resp_bytes=%d ua=%q",
			rid, c.IP(), c.Method(), c.OriginalURL(), status, time.Since(start), uid,
			len(c.Response().Body()), c.Get("User-Agent"),
		)

		return err
	}
}
