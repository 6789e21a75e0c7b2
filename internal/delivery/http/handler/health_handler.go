package handler

import (
	"context"
	"time"

	"job-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const healthPingTimeout = 2 * time.Second

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler reports on db and cache. Only the database decides the
// status code; the API keeps working without Redis.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthPingTimeout)
	defer cancel()

	status := fiber.Map{"database": ping(ctx, h.db), "cache": ping(ctx, h.cache)}
	if status["database"] == "down" {
		return response.Error(c, fiber.StatusServiceUnavailable, "Database unavailable", status)
	}
	return response.OK(c, "Server is running", status)
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return "unknown"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
