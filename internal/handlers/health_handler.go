package handlers

import (
	"time"

	"github.com/gestorerp/admin-api/internal/catalog"
	"github.com/gestorerp/admin-api/internal/database"
	"github.com/gestorerp/admin-api/internal/dto"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	registry *catalog.Registry
}

func NewHealthHandler(registry *catalog.Registry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		DB:          dbStatus,
		ModuleCount: len(h.registry.Modules()),
		ViewCount:   len(h.registry.Views(catalog.ViewFilter{})),
	})
}
