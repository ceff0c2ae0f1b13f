package middleware

import (
	"errors"
	"strconv"

	"github.com/gestorerp/admin-api/internal/dto"
	"github.com/gestorerp/admin-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const actorKey = "actor"

// RequireSession resolves the token's subject against the live user row.
// Token validity alone is not enough: a deactivated or logged-out account
// is rejected even with an unexpired token. Super admins are never gated
// by login status.
func RequireSession(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := TokenUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}

		if user.Status != models.StatusActive {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Session expired, please log in again",
			})
		}
		if !user.IsSuperAdmin() && user.LoginStatus != models.LoginStatusLoggedIn {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Session expired, please log in again",
			})
		}

		c.Locals(actorKey, &user)
		return c.Next()
	}
}

// Actor returns the authenticated user stored by RequireSession.
func Actor(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals(actorKey).(*models.User); ok {
		return user
	}
	return nil
}

// TokenUserID extracts the numeric subject from the parsed JWT in context.
func TokenUserID(c *fiber.Ctx) (uint, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return 0, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errors.New("missing sub claim")
	}

	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, errors.New("malformed sub claim")
	}
	return uint(id), nil
}
