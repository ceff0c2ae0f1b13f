package handlers

import (
	"errors"

	"github.com/gestorerp/admin-api/internal/dto"
	"github.com/gestorerp/admin-api/internal/policy"
	"github.com/gestorerp/admin-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

// respondError maps service and policy errors to HTTP responses. Anything
// unclassified becomes a generic 500 without leaking internals.
func respondError(c *fiber.Ctx, err error) error {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: ve.Message, Field: ve.Field,
		})
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return status(c, fiber.StatusUnauthorized, err)
	case errors.Is(err, services.ErrSessionExpired),
		errors.Is(err, services.ErrInvalidToken):
		return status(c, fiber.StatusUnauthorized, err)
	case errors.Is(err, services.ErrAccountDisabled),
		errors.Is(err, policy.ErrForbidden),
		errors.Is(err, policy.ErrSelfAction),
		errors.Is(err, policy.ErrLastSuperAdmin):
		return status(c, fiber.StatusForbidden, err)
	case errors.Is(err, services.ErrUserNotFound):
		return status(c, fiber.StatusNotFound, err)
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrNationalIDTaken),
		errors.Is(err, services.ErrSessionConflict),
		errors.Is(err, services.ErrConflict):
		return status(c, fiber.StatusConflict, err)
	}

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

func status(c *fiber.Ctx, code int, err error) error {
	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
}
