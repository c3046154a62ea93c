package handlers

import (
	"errors"

	"season-economy-system/services"

	"github.com/gofiber/fiber/v2"
)

// respondErr maps the service error taxonomy onto HTTP statuses. Anything
// not in the taxonomy is treated as a store failure and is safe for the
// caller to retry.
func respondErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInsufficientEnergy),
		errors.Is(err, services.ErrInsufficientBalance):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyHasEntitlement):
		// Idempotent retry of a purchase: success from the caller's view.
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "already owned"})
	case errors.Is(err, services.ErrPreconditionFailed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidAmount):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store unavailable, retry"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
