package handlers

import (
	"github.com/gestorerp/admin-api/internal/catalog"
	"github.com/gestorerp/admin-api/internal/dto"
	"github.com/gestorerp/admin-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	registry *catalog.Registry
}

func NewCatalogHandler(registry *catalog.Registry) *CatalogHandler {
	return &CatalogHandler{registry: registry}
}

func (h *CatalogHandler) GetView(c *fiber.Ctx) error {
	view := h.registry.View(c.Params("id"))
	if view == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "View not found",
		})
	}

	if actor := middleware.Actor(c); actor != nil && !view.AccessibleBy(actor.Role) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Insufficient permissions for this view",
		})
	}

	return c.JSON(fiber.Map{"view": view})
}

func (h *CatalogHandler) GetViewByAlias(c *fiber.Ctx) error {
	view := h.registry.ViewByAlias(c.Params("alias"))
	if view == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "View not found",
		})
	}

	if actor := middleware.Actor(c); actor != nil && !view.AccessibleBy(actor.Role) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Insufficient permissions for this view",
		})
	}

	return c.JSON(fiber.Map{"view": view})
}

func (h *CatalogHandler) ListViews(c *fiber.Ctx) error {
	views := h.registry.Views(catalog.ViewFilter{
		Module:   c.Query("module"),
		Category: c.Query("category"),
		Type:     c.Query("type"),
	})

	return c.JSON(fiber.Map{
		"views":   views,
		"total":   len(views),
		"modules": h.registry.ModuleNames(),
	})
}

func (h *CatalogHandler) GetModule(c *fiber.Ctx) error {
	module := h.registry.Module(c.Params("name"))
	if module == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Module not found",
		})
	}

	return c.JSON(fiber.Map{
		"module": module.Summary(),
		"views":  module.Views,
	})
}

func (h *CatalogHandler) ListModules(c *fiber.Ctx) error {
	modules := h.registry.Modules()
	return c.JSON(fiber.Map{
		"modules": modules,
		"total":   len(modules),
	})
}
