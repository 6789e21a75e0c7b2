package routes

import (
	"job-portal/internal/delivery/http/handler"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/domain/user"

	"github.com/gofiber/fiber/v3"
)

// Handlers groups everything the router mounts. Nil handlers are skipped.
type Handlers struct {
	Health        *handler.HealthHandler
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Notifications *handler.NotificationHandler
	Jobs          *handler.JobsHandler
	Applications  *handler.ApplicationHandler
	Resumes       *handler.ResumeHandler
	Admin         *handler.AdminHandler
	LinkedIn      *handler.LinkedInHandler
	// WebSocket upgrades /ws/notifications and authenticates by query token.
	WebSocket fiber.Handler
}

type Registry struct {
	h    Handlers
	auth *middleware.AuthMiddleware
}

func NewRegistry(h Handlers, auth *middleware.AuthMiddleware) *Registry {
	return &Registry{h: h, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r.auth == nil {
		return
	}

	if r.h.Health != nil {
		r.h.Health.RegisterRoutes(app)
	}
	if r.h.WebSocket != nil {
		app.Get("/ws/notifications", r.h.WebSocket)
	}
	if r.h.Resumes != nil {
		r.h.Resumes.RegisterFileRoutes(app.Group("/uploads/resumes"))
	}

	r.registerAPI(app.Group("/api"))
}

func (r *Registry) registerAPI(api fiber.Router) {
	authed := r.auth.Middleware()
	adminOnly := middleware.RequireRoles(user.RoleAdmin)

	if r.h.Auth != nil {
		r.h.Auth.RegisterRoutes(api.Group("/auth"))
	}
	if r.h.Jobs != nil {
		r.h.Jobs.RegisterRoutes(api.Group("/jobs"), authed)
	}

	users := api.Group("/users", authed)
	if r.h.Users != nil {
		r.h.Users.RegisterRoutes(users)
	}
	if r.h.Notifications != nil {
		r.h.Notifications.RegisterRoutes(users)
	}

	if r.h.Applications != nil {
		r.h.Applications.RegisterRoutes(api.Group("/applications", authed))
	}
	if r.h.Resumes != nil {
		r.h.Resumes.RegisterRoutes(api.Group("/resume", authed))
	}

	admin := api.Group("/admin", authed, adminOnly)
	if r.h.LinkedIn != nil {
		r.h.LinkedIn.RegisterRoutes(admin.Group("/linkedin"))
	}
	if r.h.Admin != nil {
		r.h.Admin.RegisterRoutes(admin)
	}
}
