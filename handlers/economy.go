// handlers/economy.go
package handlers

import (
	"season-economy-system/middleware"
	"season-economy-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupEconomyRoutes wires the energy and essence endpoints.
func SetupEconomyRoutes(app *fiber.App, energy *services.EnergyService, essences *services.EssenceService) {
	secured := app.Group("/s", middleware.PlayerContextMiddleware())

	secured.Get("/energy", func(c *fiber.Ctx) error {
		e, err := energy.GetCurrent(playerID(c))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(e)
	})

	secured.Post("/energy/consume", func(c *fiber.Ctx) error {
		var req struct {
			Amount int64 `json:"amount"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		e, err := energy.Consume(playerID(c), req.Amount)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{
			"consumed":  req.Amount,
			"remaining": e.EnergyAmount,
			"energy":    e,
		})
	})

	secured.Get("/essences", func(c *fiber.Ctx) error {
		e, err := essences.Get(playerID(c))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(e)
	})
}
