package handler

import (
	"errors"
	"strings"

	"job-portal/internal/delivery/http/dto"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/domain/user"
	"job-portal/internal/pkg/response"
	"job-portal/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	uc usecase.ApplicationUsecase
}

type applyRequest struct {
	JobID     string `json:"jobId"`
	ResumeURL string `json:"resumeUrl"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func NewApplicationHandler(uc usecase.ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

// RegisterRoutes expects r to be behind the auth middleware.
func (h *ApplicationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/apply", h.Apply)
	r.Get("/my-applications", h.ListMine)
	r.Get("/employer-applications", h.ListForEmployer)
	r.Get("/job/:jobId", h.ListForJob)
	r.Get("/", middleware.RequireRoles(user.RoleAdmin), h.ListAll)
	r.Put("/:id/status", h.UpdateStatus)
}

func (h *ApplicationHandler) Apply(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req applyRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	// A blank jobId is left to the use case as invalid input. A malformed one
	// names no job.
	var jobID uuid.UUID
	if raw := strings.TrimSpace(req.JobID); raw != "" {
		if jobID, err = uuid.Parse(raw); err != nil {
			return mapApplicationUsecaseError(usecase.ErrJobNotFound)
		}
	}

	app, err := h.uc.Apply(c.Context(), actor, usecase.ApplyInput{JobID: jobID, ResumeURL: req.ResumeURL})
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Created(c, "Application submitted successfully", dto.NewApplicationResponse(app))
}

func (h *ApplicationHandler) ListMine(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListMine(c.Context(), actor)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewCandidateApplicationResponses(items))
}

func (h *ApplicationHandler) ListForEmployer(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListForEmployer(c.Context(), actor)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewApplicationResponses(items))
}

func (h *ApplicationHandler) ListForJob(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "jobId", "Job not found")
	if err != nil {
		return err
	}

	items, err := h.uc.ListForJob(c.Context(), actor, jobID)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewApplicationResponses(items))
}

func (h *ApplicationHandler) ListAll(c fiber.Ctx) error {
	items, err := h.uc.ListAll(c.Context())
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewApplicationResponses(items))
}

func (h *ApplicationHandler) UpdateStatus(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id", "Application not found")
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	app, err := h.uc.UpdateStatus(c.Context(), actor, id, req.Status)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.OK(c, "Application status updated", dto.NewApplicationResponse(app))
}

func mapApplicationUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrOnlyCandidatesApply):
		return middleware.NewAppError(fiber.StatusForbidden, "Only candidates can apply for jobs", nil, err)
	case errors.Is(err, usecase.ErrAlreadyApplied):
		return middleware.NewAppError(fiber.StatusBadRequest, "You have already applied for this job", nil, err)
	case errors.Is(err, usecase.ErrJobNotOpen):
		return middleware.NewAppError(fiber.StatusBadRequest, "This job is not accepting applications", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Job ID is required", nil, err)
	case errors.Is(err, usecase.ErrInvalidAppStatus):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid application status", nil, err)
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrApplicationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Application not found", nil, err)
	case errors.Is(err, usecase.ErrUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, msgAccessDenied, nil, err)
	default:
		return internalError(err)
	}
}
