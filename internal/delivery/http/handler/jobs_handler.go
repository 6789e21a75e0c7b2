package handler

import (
	"errors"

	"job-portal/internal/delivery/http/dto"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/domain/user"
	"job-portal/internal/pkg/response"
	"job-portal/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobsHandler struct {
	uc usecase.JobUsecase
}

type createJobRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Salary      string    `json:"salary"`
	Skills      skillList `json:"skills"`
	Type        string    `json:"type"`
	Location    string    `json:"location"`
}

type updateJobRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Salary      *string    `json:"salary"`
	Skills      *skillList `json:"skills"`
	Type        *string    `json:"type"`
	Location    *string    `json:"location"`
	Status      *string    `json:"status"`
}

type approveJobRequest struct {
	Approved bool `json:"approved"`
}

func NewJobsHandler(uc usecase.JobUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

// RegisterRoutes mounts the public listing next to the authenticated job
// management routes; auth guards everything that is not a read.
func (h *JobsHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil || auth == nil {
		return
	}
	adminOnly := middleware.RequireRoles(user.RoleAdmin)

	r.Get("/", h.List)
	r.Post("/", auth, h.Create)
	r.Get("/employer/my-jobs", auth, h.ListMine)
	r.Get("/admin/all", auth, adminOnly, h.ListAll)
	r.Put("/admin/:id/approve", auth, adminOnly, h.Approve)
	r.Get("/:id", h.Get)
	r.Put("/:id", auth, h.Update)
	r.Delete("/:id", auth, h.Delete)
}

func (h *JobsHandler) Create(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req createJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	j, err := h.uc.Create(c.Context(), actor, usecase.CreateJobInput{
		Title:       req.Title,
		Description: req.Description,
		Salary:      req.Salary,
		Skills:      req.Skills,
		Type:        req.Type,
		Location:    req.Location,
	})
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Created(c, "Job posted successfully", dto.NewJobResponse(j))
}

func (h *JobsHandler) List(c fiber.Ctx) error {
	jobs, err := h.uc.Search(c.Context(), usecase.JobSearchParams{
		Title:    c.Query("title"),
		Location: c.Query("location"),
		Type:     c.Query("type"),
		Skills:   parseSkillsQuery(c.Query("skills")),
	})
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewJobResponses(jobs))
}

func (h *JobsHandler) Get(c fiber.Ctx) error {
	id, err := uuidParam(c, "id", "Job not found")
	if err != nil {
		return err
	}

	j, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobsHandler) Update(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id", "Job not found")
	if err != nil {
		return err
	}

	var req updateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	in := usecase.UpdateJobInput{
		Title:       req.Title,
		Description: req.Description,
		Salary:      req.Salary,
		Type:        req.Type,
		Location:    req.Location,
		Status:      req.Status,
	}
	if req.Skills != nil {
		skills := []string(*req.Skills)
		in.Skills = &skills
	}

	j, err := h.uc.Update(c.Context(), actor, id, in)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.OK(c, "Job updated successfully", dto.NewJobResponse(j))
}

func (h *JobsHandler) Delete(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id", "Job not found")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), actor, id); err != nil {
		return mapJobUsecaseError(err)
	}
	return response.OK(c, "Job deleted successfully", nil)
}

func (h *JobsHandler) ListMine(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	jobs, err := h.uc.ListMine(c.Context(), actor)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewJobResponses(jobs))
}

func (h *JobsHandler) ListAll(c fiber.Ctx) error {
	jobs, err := h.uc.ListAll(c.Context())
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewJobResponses(jobs))
}

func (h *JobsHandler) Approve(c fiber.Ctx) error {
	id, err := uuidParam(c, "id", "Job not found")
	if err != nil {
		return err
	}

	var req approveJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	j, err := h.uc.SetApproval(c.Context(), id, req.Approved)
	if err != nil {
		return mapJobUsecaseError(err)
	}

	msg := "Job rejected"
	if req.Approved {
		msg = "Job approved"
	}
	return response.OK(c, msg, dto.NewJobResponse(j))
}

func mapJobUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrOnlyEmployersPost):
		return middleware.NewAppError(fiber.StatusForbidden, "Only employers can post jobs", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, msgAccessDenied, nil, err)
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Title is required", nil, err)
	case errors.Is(err, usecase.ErrInvalidJobType):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job type", nil, err)
	case errors.Is(err, usecase.ErrInvalidJobStatus):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job status", nil, err)
	default:
		return internalError(err)
	}
}
