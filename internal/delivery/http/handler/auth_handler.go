package handler

import (
	"errors"

	"job-portal/internal/delivery/http/dto"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/pkg/response"
	"job-portal/internal/usecase"
	ucauth "job-portal/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc usecase.AuthUsecase
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	usr, err := h.uc.Register(c.Context(), ucauth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	return response.Created(c, "User registered successfully", dto.NewUserResponse(usr))
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	usr, token, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password}, c.IP())
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	return response.OK(c, "Login successful", dto.LoginResponse{
		Token: token,
		User: dto.UserIdentity{
			ID:    usr.ID,
			Role:  usr.Role,
			Name:  usr.Name,
			Email: usr.Email,
		},
	})
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucauth.ErrInvalidRole):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid role", nil, err)
	case errors.Is(err, ucauth.ErrUserExists):
		return middleware.NewAppError(fiber.StatusBadRequest, "User already exists", nil, err)
	case errors.Is(err, ucauth.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Name, email and password are required", nil, err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid credentials", nil, err)
	case errors.Is(err, ucauth.ErrAccountBanned):
		return middleware.NewAppError(fiber.StatusForbidden, "Account is banned", nil, err)
	case errors.Is(err, usecase.ErrTooManyLoginAttempts):
		return middleware.NewAppError(fiber.StatusTooManyRequests, "Too many login attempts", nil, err)
	default:
		return internalError(err)
	}
}
