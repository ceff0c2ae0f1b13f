package middleware

import (
	"github.com/gestorerp/admin-api/internal/dto"
	"github.com/gestorerp/admin-api/internal/models"
	"github.com/gofiber/fiber/v2"
)

// RequireRoles gates a route to the listed roles. Must run after
// RequireSession, which resolves the actor.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := Actor(c)
		if actor == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		for _, role := range roles {
			if actor.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Access denied: insufficient role",
		})
	}
}

// AdminRequired allows admin and super_admin actors.
func AdminRequired() fiber.Handler {
	return RequireRoles(models.RoleAdmin, models.RoleSuperAdmin)
}

// SuperAdminRequired allows only super_admin actors.
func SuperAdminRequired() fiber.Handler {
	return RequireRoles(models.RoleSuperAdmin)
}
