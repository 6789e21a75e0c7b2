package handler

import (
	"errors"
	"fmt"

	"job-portal/internal/delivery/http/dto"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/domain/job"
	"job-portal/internal/pkg/response"
	"job-portal/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AdminHandler struct {
	uc usecase.AdminUsecase
}

type broadcastRequest struct {
	Message     string   `json:"message"`
	TargetUsers []string `json:"targetUsers"`
}

func NewAdminHandler(uc usecase.AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// RegisterRoutes expects r to be restricted to admins.
func (h *AdminHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/summary", h.Summary)
	r.Get("/analytics", h.Analytics)
	r.Post("/broadcast", h.Broadcast)

	r.Get("/users", h.ListUsers)
	r.Put("/users/:id/ban", h.banHandler(true))
	r.Put("/users/:id/unban", h.banHandler(false))
	r.Delete("/users/:id", h.DeleteUser)

	r.Get("/jobs", h.ListJobs)
	r.Put("/jobs/:id/approve", h.jobStatusHandler(job.StatusOpen, "Job approved successfully"))
	r.Put("/jobs/:id/reject", h.jobStatusHandler(job.StatusRejected, "Job rejected successfully"))
	r.Delete("/jobs/:id", h.DeleteJob)
}

func (h *AdminHandler) Summary(c fiber.Ctx) error {
	s, err := h.uc.Summary(c.Context())
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewSummaryResponse(s))
}

func (h *AdminHandler) Analytics(c fiber.Ctx) error {
	a, err := h.uc.Analytics(c.Context())
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewAnalyticsResponse(a))
}

func (h *AdminHandler) Broadcast(c fiber.Ctx) error {
	var req broadcastRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	n, err := h.uc.Broadcast(c.Context(), usecase.BroadcastInput{Message: req.Message, TargetUsers: req.TargetUsers})
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.OK(c, fmt.Sprintf("Broadcast sent to %d users", n), dto.BroadcastResponse{Recipients: n})
}

func (h *AdminHandler) ListUsers(c fiber.Ctx) error {
	users, err := h.uc.ListUsers(c.Context())
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewUserResponses(users))
}

func (h *AdminHandler) banHandler(banned bool) fiber.Handler {
	msg := "User unbanned successfully"
	if banned {
		msg = "User banned successfully"
	}
	return func(c fiber.Ctx) error {
		id, err := uuidParam(c, "id", "User not found")
		if err != nil {
			return err
		}

		u, err := h.uc.SetUserBanned(c.Context(), id, banned)
		if err != nil {
			return mapAdminUsecaseError(err)
		}
		return response.OK(c, msg, dto.NewUserResponse(u))
	}
}

func (h *AdminHandler) DeleteUser(c fiber.Ctx) error {
	id, err := uuidParam(c, "id", "User not found")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteUser(c.Context(), id); err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.OK(c, "User deleted successfully", nil)
}

func (h *AdminHandler) ListJobs(c fiber.Ctx) error {
	jobs, err := h.uc.ListJobs(c.Context())
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewJobResponses(jobs))
}

func (h *AdminHandler) jobStatusHandler(status job.Status, msg string) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, err := uuidParam(c, "id", "Job not found")
		if err != nil {
			return err
		}

		j, err := h.uc.SetJobStatus(c.Context(), id, status)
		if err != nil {
			return mapAdminUsecaseError(err)
		}
		return response.OK(c, msg, dto.NewJobResponse(j))
	}
}

func (h *AdminHandler) DeleteJob(c fiber.Ctx) error {
	id, err := uuidParam(c, "id", "Job not found")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteJob(c.Context(), id); err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.OK(c, "Job deleted successfully", nil)
}

func mapAdminUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidBroadcast):
		return middleware.NewAppError(fiber.StatusBadRequest, "Message and target users are required", nil, err)
	default:
		return internalError(err)
	}
}
