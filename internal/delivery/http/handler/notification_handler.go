package handler

import (
	"errors"

	"job-portal/internal/delivery/http/dto"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/pkg/response"
	"job-portal/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type NotificationHandler struct {
	uc usecase.NotificationUsecase
}

func NewNotificationHandler(uc usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/notifications", h.List)
	r.Put("/notifications/:id/read", h.MarkRead)
}

func (h *NotificationHandler) List(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListForUser(c.Context(), actor.ID)
	if err != nil {
		return internalError(err)
	}
	return response.OK(c, response.MessageOK, dto.NewNotificationResponses(items))
}

func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id", "Notification not found")
	if err != nil {
		return err
	}

	if err := h.uc.MarkRead(c.Context(), id, actor.ID); err != nil {
		if errors.Is(err, usecase.ErrNotificationNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Notification not found", nil, err)
		}
		return internalError(err)
	}
	return response.OK(c, "Notification marked as read", nil)
}
