package handler

import (
	"errors"

	"job-portal/internal/delivery/http/dto"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/pkg/response"
	"job-portal/internal/usecase"
	useruc "job-portal/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

type companyRequest struct {
	Name     *string `json:"name"`
	Industry *string `json:"industry"`
	About    *string `json:"about"`
	Website  *string `json:"website"`
}

type updateProfileRequest struct {
	Name       *string         `json:"name"`
	Skills     *skillList      `json:"skills"`
	Experience *string         `json:"experience"`
	LinkedIn   *string         `json:"linkedin"`
	Company    *companyRequest `json:"company"`
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)
	r.Get("/recommended-jobs", h.RecommendedJobs)
	r.Get("/saved-jobs", h.SavedJobs)
	r.Post("/save-job/:jobId", h.ToggleSavedJob)
}

func (h *UserHandler) GetProfile(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	usr, err := h.uc.GetProfile(c.Context(), actor.ID)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewUserResponse(usr))
}

func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	in := useruc.UpdateProfileInput{
		Name:       req.Name,
		Experience: req.Experience,
		LinkedIn:   req.LinkedIn,
	}
	if req.Skills != nil {
		skills := []string(*req.Skills)
		in.Skills = &skills
	}
	if req.Company != nil {
		in.Company = &useruc.CompanyInput{
			Name:     req.Company.Name,
			Industry: req.Company.Industry,
			About:    req.Company.About,
			Website:  req.Company.Website,
		}
	}

	usr, err := h.uc.UpdateProfile(c.Context(), actor.ID, in)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.OK(c, "Profile updated successfully", dto.NewUserResponse(usr))
}

func (h *UserHandler) RecommendedJobs(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	items, err := h.uc.RecommendedJobs(c.Context(), actor)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewScoredJobResponses(items))
}

func (h *UserHandler) SavedJobs(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	jobs, err := h.uc.SavedJobs(c.Context(), actor)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewJobResponses(jobs))
}

func (h *UserHandler) ToggleSavedJob(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "jobId", "Job not found")
	if err != nil {
		return err
	}

	saved, err := h.uc.ToggleSavedJob(c.Context(), actor, jobID)
	if err != nil {
		return mapUserUsecaseError(err)
	}

	msg := "Job removed from saved"
	if saved {
		msg = "Job saved"
	}
	return response.OK(c, msg, fiber.Map{"saved": saved})
}

func mapUserUsecaseError(err error) error {
	switch {
	case errors.Is(err, useruc.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	case errors.Is(err, useruc.ErrNotFound), errors.Is(err, usecase.ErrUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, msgAccessDenied, nil, err)
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	default:
		return internalError(err)
	}
}
