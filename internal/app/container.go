package app

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"job-portal/internal/config"
	"job-portal/internal/database"
	dbpostgres "job-portal/internal/database/postgres"
	"job-portal/internal/domain/application"
	"job-portal/internal/domain/job"
	"job-portal/internal/domain/notification"
	"job-portal/internal/domain/resume"
	"job-portal/internal/domain/user"
	"job-portal/internal/infrastructure/cache"
	"job-portal/internal/infrastructure/events"
	"job-portal/internal/infrastructure/linkedin"
	"job-portal/internal/infrastructure/render"
	"job-portal/internal/infrastructure/storage"
	"job-portal/internal/pkg/jwt"
	"job-portal/internal/repository"
	"job-portal/internal/usecase"
	"job-portal/internal/ws"
)

// Container owns every long-lived dependency of the process.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB        database.DB
	Redis     *cache.Redis
	Publisher *events.Publisher
	Hub       *ws.Hub
	JWT       jwt.Service
	Store     usecase.FileStore

	Users         user.Repository
	Jobs          job.Repository
	Applications  application.Repository
	Resumes       resume.Repository
	Notifications notification.Repository

	AuthUC         *usecase.Auth
	UserUC         *usecase.User
	JobUC          *usecase.Jobs
	ApplicationUC  *usecase.Applications
	ResumeUC       *usecase.Resumes
	NotificationUC *usecase.Notifications
	AdminUC        *usecase.Admin
	LinkedInUC     *usecase.LinkedIn
}

func NewContainer(cfg config.Config) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: logger, DB: db}
	if err := c.build(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) build(ctx context.Context) error {
	cfg := c.Config
	logger := c.Logger

	c.Redis = cache.NewRedis(ctx, cfg.Redis.Addr(), cfg.Redis.Password, logger)
	limiter := cache.NewLoginLimiter(c.Redis, cfg.Redis.LoginMaxAttempts, cfg.Redis.LoginWindow)

	c.Users = repository.NewPostgresUserRepository(c.DB)
	c.Jobs = repository.NewPostgresJobRepository(c.DB)
	c.Applications = repository.NewPostgresApplicationRepository(c.DB)
	c.Resumes = repository.NewPostgresResumeRepository(c.DB)
	c.Notifications = repository.NewPostgresNotificationRepository(c.DB)

	store, err := newFileStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	c.Store = store

	vocab := linkedin.DefaultVocabulary()
	if cfg.LinkedIn.VocabularyFile != "" {
		loaded, err := linkedin.LoadVocabulary(cfg.LinkedIn.VocabularyFile)
		if err != nil {
			return err
		}
		vocab = loaded
	}

	// The broker is optional; without it domain events are only logged.
	var publisher usecase.EventPublisher
	if cfg.Events.AMQPURL != "" {
		p, err := events.NewPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			logger.Printf("[Events] broker unavailable, publishing disabled | error=%v", err)
		} else {
			c.Publisher = p
			publisher = p
		}
	}

	c.Hub = ws.NewHub(logger)
	c.JWT = jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	renderer := render.NewPDFRenderer(render.Config{
		ChromePath: cfg.Renderer.ChromePath,
		Timeout:    cfg.Renderer.Timeout,
	})
	searcher := linkedin.NewClient(linkedin.Config{
		BaseURL:     cfg.LinkedIn.BaseURL,
		AccessToken: cfg.LinkedIn.AccessToken,
		Timeout:     cfg.LinkedIn.Timeout,
	}, vocab, logger)

	c.NotificationUC = usecase.NewNotifications(c.Notifications, c.Hub, publisher, logger)
	c.AuthUC = usecase.NewAuthUsecase(c.Users, c.JWT, limiter, logger)
	c.UserUC = usecase.NewUserUsecase(c.Users, c.Jobs)
	c.JobUC = usecase.NewJobUsecase(c.Jobs)
	c.ApplicationUC = usecase.NewApplicationUsecase(c.Applications, c.Jobs, c.Users, c.NotificationUC, publisher, logger)
	c.ResumeUC = usecase.NewResumeUsecase(c.Resumes, store, renderer, vocab, cfg.Storage.MaxUploadBytes, logger)
	c.AdminUC = usecase.NewAdminUsecase(c.Users, c.Jobs, c.Applications, c.NotificationUC, store, c.Hub, logger)
	c.LinkedInUC = usecase.NewLinkedInUsecase(searcher, c.Jobs, c.Users, c.Applications, c.NotificationUC, publisher, logger)
	c.LinkedInUC.SetImportRate(cfg.LinkedIn.ImportRPS)

	return nil
}

func newFileStore(ctx context.Context, cfg config.StorageConfig) (usecase.FileStore, error) {
	if cfg.Driver == config.StorageDriverMinio {
		return storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:     cfg.MinioEndpoint,
			AccessKey:    cfg.MinioAccessKey,
			SecretKey:    cfg.MinioSecretKey,
			Bucket:       cfg.MinioBucket,
			UseSSL:       cfg.MinioUseSSL,
			PublicPrefix: cfg.PublicPrefix,
		})
	}
	return storage.NewLocalStore(cfg.LocalDir, cfg.PublicPrefix)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Publisher != nil {
		errs = append(errs, c.Publisher.Close())
	}
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
