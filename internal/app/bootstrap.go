package app

import (
	"fmt"
	"strings"

	"job-portal/internal/config"
	"job-portal/internal/delivery/http/handler"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/delivery/http/routes"
	"job-portal/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	errMw := middleware.NewErrorMiddleware(c.Logger)

	f := fiber.New(fiber.Config{
		AppName:      c.Config.App.AppName,
		ErrorHandler: errMw.Handler,
		BodyLimit:    handler.UploadBodyLimit(c.Config.Storage.MaxUploadBytes),
	})

	registerGlobalMiddleware(f, c.Config, c, errMw)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container and the HTTP app. The returned cleanup
// releases every resource the container opened.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, c *Container, errMw *middleware.ErrorMiddleware) {
	if app == nil {
		return
	}

	origins := cfg.App.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		AllowMethods: []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions},
	}))

	app.Use(middleware.NewAccessLogMiddleware(c.Logger, "/health").Middleware())
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	wsHandler := ws.NewHandler(c.Hub, c.JWT, c.Logger)

	registry := routes.NewRegistry(routes.Handlers{
		Health:        handler.NewHealthHandler(c.DB, c.Redis),
		Auth:          handler.NewAuthHandler(c.AuthUC),
		Users:         handler.NewUserHandler(c.UserUC),
		Notifications: handler.NewNotificationHandler(c.NotificationUC),
		Jobs:          handler.NewJobsHandler(c.JobUC),
		Applications:  handler.NewApplicationHandler(c.ApplicationUC),
		Resumes:       handler.NewResumeHandler(c.ResumeUC, c.Config.Storage.MaxUploadBytes),
		Admin:         handler.NewAdminHandler(c.AdminUC),
		LinkedIn:      handler.NewLinkedInHandler(c.LinkedInUC),
		WebSocket:     wsHandler.HandleNotificationsWS,
	}, middleware.NewAuthMiddleware(c.JWT))
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
