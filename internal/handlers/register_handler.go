package handlers

import (
	"log/slog"

	"github.com/gestorerp/admin-api/internal/dto"
	"github.com/gestorerp/admin-api/internal/middleware"
	"github.com/gestorerp/admin-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type RegisterHandler struct {
	userService *services.UserService
}

func NewRegisterHandler(userService *services.UserService) *RegisterHandler {
	return &RegisterHandler{userService: userService}
}

func (h *RegisterHandler) Register(c *fiber.Ctx) error {
	actor := middleware.Actor(c)

	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.userService.Register(actor, &req)
	if err != nil {
		return respondError(c, err)
	}

	slog.Info("user registered", "user_id", resp.ID, "role", resp.Role, "created_by", actor.ID)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *RegisterHandler) CheckAvailability(c *fiber.Ctx) error {
	var req dto.AvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.userService.CheckAvailability(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *RegisterHandler) Options(c *fiber.Ctx) error {
	actor := middleware.Actor(c)
	return c.JSON(h.userService.RegisterOptions(actor))
}
