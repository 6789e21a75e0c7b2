package middleware

import (
	"errors"
	"strings"

	"job-portal/internal/domain/user"
	"job-portal/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	CtxUserIDKey = "user_id"
	CtxRoleKey   = "role"
	CtxNameKey   = "name"
	CtxEmailKey  = "email"
)

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "No token, authorization denied", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Token is not valid", nil, err)
		}

		role, ok := user.ParseRole(claims.Role)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Token is not valid", nil, nil)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxRoleKey, role)
		c.Locals(CtxNameKey, claims.Name)
		c.Locals(CtxEmailKey, claims.Email)

		return c.Next()
	}
}

// RequireRoles rejects callers whose role is not one of roles. It must run
// after the auth middleware.
func RequireRoles(roles ...user.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "No token, authorization denied", nil, nil)
		}
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return NewAppError(fiber.StatusForbidden, "Access denied", nil, nil)
	}
}

// ActorFrom reads the authenticated caller stored by the auth middleware.
func ActorFrom(c fiber.Ctx) (user.Actor, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return user.Actor{}, false
	}
	role, ok := c.Locals(CtxRoleKey).(user.Role)
	if !ok {
		return user.Actor{}, false
	}
	return user.Actor{ID: id, Role: role}, true
}

func BearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
