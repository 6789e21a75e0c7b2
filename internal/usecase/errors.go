package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")

	ErrTooManyLoginAttempts = errors.New("too many login attempts")

	ErrUserNotFound = errors.New("user not found")

	ErrJobNotFound       = errors.New("job not found")
	ErrOnlyEmployersPost = errors.New("only employers can post jobs")
	ErrInvalidJobType    = errors.New("invalid job type")
	ErrInvalidJobStatus  = errors.New("invalid job status")

	ErrApplicationNotFound = errors.New("application not found")
	ErrOnlyCandidatesApply = errors.New("only candidates can apply for jobs")
	ErrAlreadyApplied      = errors.New("already applied for this job")
	ErrJobNotOpen          = errors.New("job is not open for applications")
	ErrInvalidAppStatus    = errors.New("invalid application status")

	ErrResumeNotFound      = errors.New("resume not found")
	ErrResumeFileMissing   = errors.New("resume file not found")
	ErrNoFileUploaded      = errors.New("no file uploaded")
	ErrUnsupportedFileType = errors.New("only pdf, doc and docx files are allowed")
	ErrFileTooLarge        = errors.New("file too large")
	ErrTemplateDataMissing = errors.New("template and data are required")
	ErrResumeFieldsMissing = errors.New("full name, email and summary are required")

	ErrNotificationNotFound = errors.New("notification not found")

	ErrInvalidBroadcast   = errors.New("message and target users are required")
	ErrKeywordsRequired   = errors.New("keywords are required")
	ErrExternalJobMissing = errors.New("external job not found")
	ErrLinkedInJobMissing = errors.New("linkedin job not found")
)
