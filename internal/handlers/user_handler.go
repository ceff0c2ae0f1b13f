package handlers

import (
	"log/slog"
	"strconv"

	"github.com/gestorerp/admin-api/internal/dto"
	"github.com/gestorerp/admin-api/internal/middleware"
	"github.com/gestorerp/admin-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	filter := services.ListFilter{
		Page:    c.QueryInt("page", 1),
		Limit:   c.QueryInt("limit", 20),
		Search:  c.Query("search"),
		Role:    c.Query("role"),
		Status:  c.Query("status"),
		SortBy:  c.Query("sort_by"),
		SortDir: c.Query("sort_dir"),
	}

	resp, err := h.userService.List(filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := targetID(c)
	if err != nil {
		return badID(c)
	}

	resp, err := h.userService.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := targetID(c)
	if err != nil {
		return badID(c)
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.userService.Update(middleware.Actor(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *UserHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := targetID(c)
	if err != nil {
		return badID(c)
	}

	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.userService.UpdateStatus(middleware.Actor(c), id, req.Status); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Status updated"})
}

func (h *UserHandler) ForceLogout(c *fiber.Ctx) error {
	id, err := targetID(c)
	if err != nil {
		return badID(c)
	}

	if err := h.userService.ForceLogout(middleware.Actor(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "User logged out"})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := targetID(c)
	if err != nil {
		return badID(c)
	}

	actor := middleware.Actor(c)
	if err := h.userService.Delete(actor, id); err != nil {
		return respondError(c, err)
	}

	slog.Info("user deactivated", "user_id", id, "actor_id", actor.ID)
	return c.JSON(dto.MessageResponse{Message: "User deactivated"})
}

func (h *UserHandler) Batch(c *fiber.Ctx) error {
	var req dto.BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.userService.Batch(middleware.Actor(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func targetID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid user ID",
	})
}
