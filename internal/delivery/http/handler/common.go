package handler

import (
	"encoding/json"
	"strings"

	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/domain/job"
	"job-portal/internal/domain/user"
	"job-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const msgAccessDenied = "Access denied"

func actorFrom(c fiber.Ctx) (user.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return user.Actor{}, middleware.NewAppError(fiber.StatusUnauthorized, "No token, authorization denied", nil, nil)
	}
	return actor, nil
}

// uuidParam parses a path id. Malformed ids cannot name an existing record,
// so they get the same 404 as a missing one.
func uuidParam(c fiber.Ctx, name, notFoundMsg string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusNotFound, notFoundMsg, nil, err)
	}
	return id, nil
}

func badRequest(err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
}

func internalError(err error) error {
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}

// skillList accepts skills as a JSON array or as one comma separated string.
type skillList []string

func (s *skillList) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err == nil {
		*s = job.ParseSkills(raw)
		return nil
	}
	var items []string
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*s = items
	return nil
}

func parseSkillsQuery(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return job.ParseSkills(raw)
}
