package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"job-portal/internal/domain/resume"
	"job-portal/internal/infrastructure/pdftext"
	"job-portal/internal/infrastructure/storage"

	"github.com/google/uuid"
)

const DefaultMaxUploadBytes int64 = 5 << 20

var allowedResumeExts = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var allowedResumeMIME = regexp.MustCompile(`pdf|msword|wordprocessingml|octet-stream`)

var whitespace = regexp.MustCompile(`\s+`)

type UploadResumeInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
	Title       string
}

type UploadResumeResult struct {
	Resume          resume.Resume
	SuggestedSkills []string
}

type GenerateResumeInput struct {
	Template string
	Data     *resume.Data
	Title    string
}

// ResumeView is either a rendered HTML page or a location to redirect to.
type ResumeView struct {
	HTML        string
	RedirectURL string
}

// ResumeFile is a downloadable document. The caller closes Body.
type ResumeFile struct {
	FileName    string
	ContentType string
	Body        io.ReadCloser
}

type ResumeUsecase interface {
	Upload(ctx context.Context, userID uuid.UUID, in UploadResumeInput) (UploadResumeResult, error)
	Generate(ctx context.Context, userID uuid.UUID, in GenerateResumeInput) (resume.Resume, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]resume.Resume, error)
	Get(ctx context.Context, userID, id uuid.UUID) (resume.Resume, error)
	View(ctx context.Context, userID, id uuid.UUID) (ResumeView, error)
	Download(ctx context.Context, userID, id uuid.UUID) (ResumeFile, error)
	SetActive(ctx context.Context, userID, id uuid.UUID) (resume.Resume, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (resume.DeleteResult, error)
	OpenStored(ctx context.Context, key string) (ResumeFile, error)
}

type Resumes struct {
	repo     resume.Repository
	store    FileStore
	renderer PDFRenderer
	skills   SkillExtractor
	maxBytes int64
	logger   *log.Logger
	now      func() time.Time
}

func NewResumeUsecase(repo resume.Repository, store FileStore, renderer PDFRenderer, skills SkillExtractor, maxBytes int64, logger *log.Logger) *Resumes {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resumes{
		repo:     repo,
		store:    store,
		renderer: renderer,
		skills:   skills,
		maxBytes: maxBytes,
		logger:   logger,
		now:      time.Now,
	}
}

func (u *Resumes) MaxUploadBytes() int64 { return u.maxBytes }

func (u *Resumes) Upload(ctx context.Context, userID uuid.UUID, in UploadResumeInput) (UploadResumeResult, error) {
	if in.Body == nil || strings.TrimSpace(in.FileName) == "" {
		return UploadResumeResult{}, ErrNoFileUploaded
	}
	ext := strings.ToLower(filepath.Ext(in.FileName))
	canonical, ok := allowedResumeExts[ext]
	if !ok {
		return UploadResumeResult{}, ErrUnsupportedFileType
	}
	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	if contentType == "" {
		contentType = canonical
	}
	if !allowedResumeMIME.MatchString(contentType) {
		return UploadResumeResult{}, ErrUnsupportedFileType
	}
	if in.Size > u.maxBytes {
		return UploadResumeResult{}, ErrFileTooLarge
	}

	body, err := io.ReadAll(io.LimitReader(in.Body, u.maxBytes+1))
	if err != nil {
		return UploadResumeResult{}, ErrInternal
	}
	if int64(len(body)) > u.maxBytes {
		return UploadResumeResult{}, ErrFileTooLarge
	}

	now := u.now().UTC()
	key := storage.NewKey(in.FileName, now)
	if err := u.store.Put(ctx, key, bytes.NewReader(body), int64(len(body)), canonical); err != nil {
		u.logger.Printf("[Resume] store upload failed | key=%s err=%v", key, err)
		return UploadResumeResult{}, ErrInternal
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Resume " + now.Format("2006-01-02")
	}
	r := resume.Resume{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      title,
		Type:       resume.TypeUploaded,
		FileURL:    u.store.URL(key),
		FileName:   filepath.Base(in.FileName),
		StorageKey: key,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := u.repo.CreateActive(ctx, r); err != nil {
		if derr := u.store.Delete(ctx, key); derr != nil {
			u.logger.Printf("[Resume] orphan cleanup failed | key=%s err=%v", key, derr)
		}
		return UploadResumeResult{}, ErrInternal
	}

	return UploadResumeResult{Resume: r, SuggestedSkills: u.suggestSkills(ext, body)}, nil
}

// suggestSkills reads the text of PDF uploads and matches it against the skill
// vocabulary. Word documents get no suggestions.
func (u *Resumes) suggestSkills(ext string, body []byte) []string {
	if u.skills == nil || ext != ".pdf" {
		return []string{}
	}
	text, err := pdftext.ExtractBytes(body)
	if err != nil {
		u.logger.Printf("[Resume] text extraction skipped | err=%v", err)
		return []string{}
	}
	return u.skills.Extract(text)
}

func (u *Resumes) Generate(ctx context.Context, userID uuid.UUID, in GenerateResumeInput) (resume.Resume, error) {
	if strings.TrimSpace(in.Template) == "" || in.Data == nil {
		return resume.Resume{}, ErrTemplateDataMissing
	}
	if missing := in.Data.MissingRequired(); len(missing) > 0 {
		return resume.Resume{}, ErrResumeFieldsMissing
	}

	tpl := resume.ResolveTemplate(in.Template)
	content, err := resume.Render(tpl, *in.Data)
	if err != nil {
		return resume.Resume{}, ErrInternal
	}
	raw, err := json.Marshal(in.Data)
	if err != nil {
		return resume.Resume{}, ErrInternal
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = strings.TrimSpace(in.Data.FullName) + "'s Resume"
	}
	now := u.now().UTC()
	r := resume.Resume{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Type:      resume.TypeGenerated,
		Template:  tpl,
		Content:   content,
		Data:      raw,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.repo.CreateActive(ctx, r); err != nil {
		return resume.Resume{}, ErrInternal
	}
	return r, nil
}

func (u *Resumes) ListMine(ctx context.Context, userID uuid.UUID) ([]resume.Resume, error) {
	items, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Resumes) Get(ctx context.Context, userID, id uuid.UUID) (resume.Resume, error) {
	r, err := u.repo.GetForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return resume.Resume{}, ErrResumeNotFound
		}
		return resume.Resume{}, ErrInternal
	}
	return r, nil
}

func (u *Resumes) View(ctx context.Context, userID, id uuid.UUID) (ResumeView, error) {
	r, err := u.Get(ctx, userID, id)
	if err != nil {
		return ResumeView{}, err
	}
	if r.Type != resume.TypeGenerated {
		return ResumeView{RedirectURL: r.FileURL}, nil
	}
	page, err := resume.RenderPage(r.Title, r.Content, "/api/resume/download/"+r.ID.String())
	if err != nil {
		return ResumeView{}, ErrInternal
	}
	return ResumeView{HTML: page}, nil
}

// Download renders generated resumes to PDF and streams uploaded files as
// stored.
func (u *Resumes) Download(ctx context.Context, userID, id uuid.UUID) (ResumeFile, error) {
	r, err := u.Get(ctx, userID, id)
	if err != nil {
		return ResumeFile{}, err
	}

	if r.Type == resume.TypeGenerated {
		page, err := resume.RenderPage(r.Title, r.Content, "")
		if err != nil {
			return ResumeFile{}, ErrInternal
		}
		pdf, err := u.renderer.RenderPDF(ctx, page)
		if err != nil {
			u.logger.Printf("[Resume] pdf render failed | id=%s err=%v", r.ID, err)
			return ResumeFile{}, ErrInternal
		}
		return ResumeFile{
			FileName:    whitespace.ReplaceAllString(r.Title, "_") + ".pdf",
			ContentType: "application/pdf",
			Body:        io.NopCloser(bytes.NewReader(pdf)),
		}, nil
	}

	f, err := u.openKey(ctx, r.StorageKey)
	if err != nil {
		return ResumeFile{}, err
	}
	if r.FileName != "" {
		f.FileName = r.FileName
	} else {
		f.FileName = "resume.pdf"
	}
	return f, nil
}

func (u *Resumes) SetActive(ctx context.Context, userID, id uuid.UUID) (resume.Resume, error) {
	r, err := u.repo.Activate(ctx, id, userID)
	if err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return resume.Resume{}, ErrResumeNotFound
		}
		return resume.Resume{}, ErrInternal
	}
	return r, nil
}

// Delete removes the record first and the stored file after commit. A file
// that is already gone is not an error.
func (u *Resumes) Delete(ctx context.Context, userID, id uuid.UUID) (resume.DeleteResult, error) {
	res, err := u.repo.Delete(ctx, id, userID)
	if err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return resume.DeleteResult{}, ErrResumeNotFound
		}
		return resume.DeleteResult{}, ErrInternal
	}
	if res.Deleted.Type == resume.TypeUploaded && res.Deleted.StorageKey != "" {
		if err := u.store.Delete(ctx, res.Deleted.StorageKey); err != nil {
			u.logger.Printf("[Resume] file cleanup failed | key=%s err=%v", res.Deleted.StorageKey, err)
		}
	}
	return res, nil
}

// OpenStored serves a stored upload by its key for the public uploads route.
func (u *Resumes) OpenStored(ctx context.Context, key string) (ResumeFile, error) {
	f, err := u.openKey(ctx, key)
	if err != nil {
		return ResumeFile{}, err
	}
	f.FileName = key
	return f, nil
}

func (u *Resumes) openKey(ctx context.Context, key string) (ResumeFile, error) {
	if key == "" {
		return ResumeFile{}, ErrResumeFileMissing
	}
	body, err := u.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return ResumeFile{}, ErrResumeFileMissing
		}
		return ResumeFile{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(key)))
	if c, ok := allowedResumeExts[strings.ToLower(filepath.Ext(key))]; ok {
		ct = c
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	return ResumeFile{ContentType: ct, Body: body}, nil
}
