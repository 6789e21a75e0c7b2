package handler

import (
	"errors"
	"fmt"
	"net/url"
	"path"

	"job-portal/internal/delivery/http/dto"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/domain/resume"
	"job-portal/internal/pkg/response"
	"job-portal/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const resumeFormField = "resume"

type ResumeHandler struct {
	uc             usecase.ResumeUsecase
	maxUploadBytes int64
}

type generateResumeRequest struct {
	Template string       `json:"template"`
	Data     *resume.Data `json:"data"`
	Title    string       `json:"title"`
}

func NewResumeHandler(uc usecase.ResumeUsecase, maxUploadBytes int64) *ResumeHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = usecase.DefaultMaxUploadBytes
	}
	return &ResumeHandler{uc: uc, maxUploadBytes: maxUploadBytes}
}

// UploadBodyLimit sizes the server body limit well above the upload ceiling
// so oversized files reach the resume use case and get its validation error.
func UploadBodyLimit(maxUploadBytes int64) int {
	if maxUploadBytes <= 0 {
		maxUploadBytes = usecase.DefaultMaxUploadBytes
	}
	return int(4*maxUploadBytes) + 1<<20
}

// RegisterRoutes expects r to be behind the auth middleware.
func (h *ResumeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/upload-resume", h.Upload)
	r.Post("/generate", h.Generate)
	r.Get("/my-resumes", h.ListMine)
	r.Get("/view/:id", h.View)
	r.Get("/download/:id", h.Download)
	r.Put("/set-active/:id", h.SetActive)
	r.Get("/:id", h.Get)
	r.Delete("/:id", h.Delete)
}

// RegisterFileRoutes serves stored uploads at their public URL.
func (h *ResumeHandler) RegisterFileRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/:file", h.ServeFile)
}

func (h *ResumeHandler) Upload(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile(resumeFormField)
	if err != nil || fh == nil {
		return h.mapError(usecase.ErrNoFileUploaded)
	}
	f, err := fh.Open()
	if err != nil {
		return internalError(err)
	}
	defer f.Close()

	res, err := h.uc.Upload(c.Context(), actor.ID, usecase.UploadResumeInput{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
		Title:       c.FormValue("title"),
	})
	if err != nil {
		return h.mapError(err)
	}

	skills := res.SuggestedSkills
	if skills == nil {
		skills = []string{}
	}
	return response.Created(c, "Resume uploaded successfully", dto.UploadResumeResponse{
		Resume:          dto.NewResumeResponse(res.Resume),
		SuggestedSkills: skills,
	})
}

func (h *ResumeHandler) Generate(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req generateResumeRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	r, err := h.uc.Generate(c.Context(), actor.ID, usecase.GenerateResumeInput{
		Template: req.Template,
		Data:     req.Data,
		Title:    req.Title,
	})
	if err != nil {
		return h.mapError(err)
	}
	return response.Created(c, "Resume generated successfully", dto.NewResumeResponse(r))
}

func (h *ResumeHandler) ListMine(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListMine(c.Context(), actor.ID)
	if err != nil {
		return h.mapError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewResumeResponses(items))
}

func (h *ResumeHandler) Get(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id", "Resume not found")
	if err != nil {
		return err
	}

	r, err := h.uc.Get(c.Context(), actor.ID, id)
	if err != nil {
		return h.mapError(err)
	}
	return response.OK(c, response.MessageOK, dto.ResumeDetailResponse{
		ResumeResponse: dto.NewResumeResponse(r),
		Content:        r.Content,
	})
}

func (h *ResumeHandler) View(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id", "Resume not found")
	if err != nil {
		return err
	}

	v, err := h.uc.View(c.Context(), actor.ID, id)
	if err != nil {
		return h.mapError(err)
	}
	if v.RedirectURL != "" {
		return c.Redirect().Status(fiber.StatusFound).To(v.RedirectURL)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(v.HTML)
}

func (h *ResumeHandler) Download(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id", "Resume not found")
	if err != nil {
		return err
	}

	f, err := h.uc.Download(c.Context(), actor.ID, id)
	if err != nil {
		return h.mapError(err)
	}
	return sendFile(c, f, true)
}

func (h *ResumeHandler) SetActive(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id", "Resume not found")
	if err != nil {
		return err
	}

	r, err := h.uc.SetActive(c.Context(), actor.ID, id)
	if err != nil {
		return h.mapError(err)
	}
	return response.OK(c, "Resume set as active", dto.NewResumeResponse(r))
}

func (h *ResumeHandler) Delete(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id", "Resume not found")
	if err != nil {
		return err
	}

	res, err := h.uc.Delete(c.Context(), actor.ID, id)
	if err != nil {
		return h.mapError(err)
	}

	var promoted *dto.ResumeResponse
	if res.Promoted != nil {
		p := dto.NewResumeResponse(*res.Promoted)
		promoted = &p
	}
	return response.OK(c, "Resume deleted successfully", fiber.Map{"activeResume": promoted})
}

func (h *ResumeHandler) ServeFile(c fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("file"))
	if err != nil || name != path.Base(name) {
		return middleware.NewAppError(fiber.StatusNotFound, "File not found", nil, err)
	}

	f, err := h.uc.OpenStored(c.Context(), name)
	if err != nil {
		return h.mapError(err)
	}
	return sendFile(c, f, false)
}

// sendFile streams f and hands closing it to the response writer.
func sendFile(c fiber.Ctx, f usecase.ResumeFile, attachment bool) error {
	if attachment {
		c.Attachment(f.FileName)
	}
	c.Set(fiber.HeaderContentType, f.ContentType)
	return c.SendStream(f.Body)
}

func (h *ResumeHandler) mapError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrNoFileUploaded):
		return middleware.NewAppError(fiber.StatusBadRequest, "No file uploaded", nil, err)
	case errors.Is(err, usecase.ErrUnsupportedFileType):
		return middleware.NewAppError(fiber.StatusBadRequest, "Only PDF, DOC, and DOCX files are allowed", nil, err)
	case errors.Is(err, usecase.ErrFileTooLarge):
		msg := fmt.Sprintf("File too large. Maximum size is %dMB", h.maxUploadBytes>>20)
		return middleware.NewAppError(fiber.StatusBadRequest, msg, nil, err)
	case errors.Is(err, usecase.ErrTemplateDataMissing):
		return middleware.NewAppError(fiber.StatusBadRequest, "Template and data are required", nil, err)
	case errors.Is(err, usecase.ErrResumeFieldsMissing):
		return middleware.NewAppError(fiber.StatusBadRequest, "Full name, email, and summary are required", nil, err)
	case errors.Is(err, usecase.ErrResumeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Resume not found", nil, err)
	case errors.Is(err, usecase.ErrResumeFileMissing):
		return middleware.NewAppError(fiber.StatusNotFound, "File not found", nil, err)
	default:
		return internalError(err)
	}
}
