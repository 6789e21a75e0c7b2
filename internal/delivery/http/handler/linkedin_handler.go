package handler

import (
	"errors"
	"fmt"
	"strconv"

	"job-portal/internal/delivery/http/dto"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/infrastructure/linkedin"
	"job-portal/internal/pkg/response"
	"job-portal/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type LinkedInHandler struct {
	uc usecase.LinkedInUsecase
}

type bulkImportRequest struct {
	Keywords string   `json:"keywords"`
	Location string   `json:"location"`
	Limit    int      `json:"limit"`
	JobIDs   []string `json:"jobIds"`
}

type postToCandidatesRequest struct {
	JobID           string    `json:"jobId"`
	TargetSkills    skillList `json:"targetSkills"`
	TargetLocations []string  `json:"targetLocations"`
	Message         string    `json:"message"`
}

func NewLinkedInHandler(uc usecase.LinkedInUsecase) *LinkedInHandler {
	return &LinkedInHandler{uc: uc}
}

// RegisterRoutes expects r to be restricted to admins.
func (h *LinkedInHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/search", h.Search)
	r.Post("/import/:linkedinId", h.Import)
	r.Post("/bulk-import", h.BulkImport)
	r.Get("/history", h.History)
	r.Get("/stats", h.Stats)
	r.Post("/post-to-candidates", h.PostToCandidates)
	r.Get("/candidates", h.Candidates)
	r.Get("/posting-history", h.PostingHistory)
}

func (h *LinkedInHandler) Search(c fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
		}
		limit = n
	}

	jobs, err := h.uc.Search(c.Context(), linkedin.Query{
		Keywords: c.Query("keywords"),
		Location: c.Query("location"),
		Limit:    limit,
	})
	if err != nil {
		return mapLinkedInUsecaseError(err)
	}
	return response.OK(c, "LinkedIn jobs fetched successfully", fiber.Map{"jobs": jobs, "total": len(jobs)})
}

func (h *LinkedInHandler) Import(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	res, err := h.uc.Import(c.Context(), actor, c.Params("linkedinId"), linkedin.Query{
		Keywords: c.Query("keywords"),
		Location: c.Query("location"),
	})
	if err != nil {
		return mapLinkedInUsecaseError(err)
	}

	out := dto.NewImportResultResponse(res)
	if res.Duplicate {
		return middleware.NewAppError(fiber.StatusBadRequest, res.Message, out, nil)
	}
	return response.Created(c, res.Message, out)
}

func (h *LinkedInHandler) BulkImport(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req bulkImportRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	res, err := h.uc.BulkImport(c.Context(), actor, usecase.BulkImportInput{
		Keywords: req.Keywords,
		Location: req.Location,
		Limit:    req.Limit,
		JobIDs:   req.JobIDs,
	})
	if err != nil {
		return mapLinkedInUsecaseError(err)
	}
	return response.OK(c, "Bulk import completed", dto.NewBulkImportResponse(res))
}

func (h *LinkedInHandler) History(c fiber.Ctx) error {
	jobs, err := h.uc.History(c.Context())
	if err != nil {
		return mapLinkedInUsecaseError(err)
	}
	return response.OK(c, "LinkedIn import history retrieved", dto.NewJobResponses(jobs))
}

func (h *LinkedInHandler) Stats(c fiber.Ctx) error {
	s, err := h.uc.Stats(c.Context())
	if err != nil {
		return mapLinkedInUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewLinkedInStatsResponse(s))
}

func (h *LinkedInHandler) PostToCandidates(c fiber.Ctx) error {
	var req postToCandidatesRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return mapLinkedInUsecaseError(usecase.ErrLinkedInJobMissing)
	}

	res, err := h.uc.PostToCandidates(c.Context(), usecase.PostToCandidatesInput{
		JobID:           jobID,
		TargetSkills:    req.TargetSkills,
		TargetLocations: req.TargetLocations,
		Message:         req.Message,
	})
	if err != nil {
		return mapLinkedInUsecaseError(err)
	}

	out := dto.PostToCandidatesResponse{CandidatesNotified: res.CandidatesNotified}
	if res.Job != nil {
		out.Job = dto.NewJobResponse(*res.Job)
	}
	if res.CandidatesNotified == 0 {
		return response.OK(c, "No candidates found matching the criteria", out)
	}
	return response.OK(c, fmt.Sprintf("Job posted to %d candidates successfully", res.CandidatesNotified), out)
}

func (h *LinkedInHandler) Candidates(c fiber.Ctx) error {
	users, err := h.uc.Candidates(c.Context(), parseSkillsQuery(c.Query("skills")))
	if err != nil {
		return mapLinkedInUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewUserResponses(users))
}

func (h *LinkedInHandler) PostingHistory(c fiber.Ctx) error {
	jobs, err := h.uc.PostingHistory(c.Context())
	if err != nil {
		return mapLinkedInUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewJobResponses(jobs))
}

func mapLinkedInUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrKeywordsRequired):
		return middleware.NewAppError(fiber.StatusBadRequest, "Keywords are required", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "LinkedIn job id is required", nil, err)
	case errors.Is(err, usecase.ErrExternalJobMissing):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found in LinkedIn search results", nil, err)
	case errors.Is(err, usecase.ErrLinkedInJobMissing):
		return middleware.NewAppError(fiber.StatusNotFound, "LinkedIn job not found", nil, err)
	default:
		return internalError(err)
	}
}
