// handlers/shop.go
package handlers

import (
	"errors"
	"strconv"

	"season-economy-system/middleware"
	"season-economy-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupShopRoutes wires the essence-funded purchases (season entry tickets,
// reserve-energy bundles) and the player's reward history.
func SetupShopRoutes(app *fiber.App, purchases *services.PurchaseService, rewards *services.RewardService) {
	secured := app.Group("/s", middleware.PlayerContextMiddleware())

	secured.Get("/shop/catalog", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"entry_ticket":   services.EntryTicketCost(),
			"reserve_energy": services.ReserveOffers(),
		})
	})

	secured.Post("/seasons/:id/ticket", func(c *fiber.Ctx) error {
		txn, err := purchases.PurchaseEntryTicket(playerID(c), c.Params("id"))
		if errors.Is(err, services.ErrAlreadyHasEntitlement) {
			// Retried purchase: report success without a second charge.
			return c.JSON(fiber.Map{"message": "entry ticket already held"})
		}
		if err != nil {
			return respondErr(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(txn)
	})

	secured.Post("/seasons/:id/reserve-energy", func(c *fiber.Ctx) error {
		var req struct {
			Tier string `json:"tier"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		txn, err := purchases.PurchaseReserveEnergy(playerID(c), c.Params("id"), services.ReserveTier(req.Tier))
		if err != nil {
			return respondErr(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(txn)
	})

	secured.Get("/rewards", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		list, err := rewards.PlayerRewards(playerID(c), limit)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(list)
	})

	secured.Get("/seasons/:id/transactions", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		txns, err := purchases.Transactions(playerID(c), c.Params("id"), limit)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(txns)
	})
}
