// handlers/admin.go
package handlers

import (
	"time"

	"season-economy-system/middleware"
	"season-economy-system/models"
	"season-economy-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes wires the operational surface: season provisioning,
// snapshot and close triggers, energy refills and essence grants.
func SetupAdminRoutes(app *fiber.App,
	seasons *services.SeasonService,
	leaderboard *services.LeaderboardService,
	rewards *services.RewardService,
	energy *services.EnergyService,
	essences *services.EssenceService,
) {
	admin := app.Group("/s/admin", middleware.PlayerContextMiddleware(), middleware.RequireAdmin())

	admin.Post("/seasons", func(c *fiber.Ctx) error {
		var req struct {
			Name        string    `json:"name"`
			Description string    `json:"description"`
			StartTime   time.Time `json:"start_time"`
			EndTime     time.Time `json:"end_time"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		season, err := seasons.CreateSeason(req.Name, req.Description, req.StartTime, req.EndTime)
		if err != nil {
			return respondErr(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(season)
	})

	admin.Put("/seasons/:id", func(c *fiber.Ctx) error {
		var req struct {
			Name        *string    `json:"name"`
			Description *string    `json:"description"`
			StartTime   *time.Time `json:"start_time"`
			EndTime     *time.Time `json:"end_time"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		season, err := seasons.UpdateSeason(c.Params("id"), req.Name, req.Description, req.StartTime, req.EndTime)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(season)
	})

	admin.Patch("/seasons/:id/status", func(c *fiber.Ctx) error {
		var req struct {
			Status models.SeasonStatus `json:"status"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		season, err := seasons.UpdateStatus(c.Params("id"), req.Status)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(season)
	})

	admin.Post("/seasons/:id/snapshot", func(c *fiber.Ctx) error {
		n, err := leaderboard.Snapshot(c.Params("id"))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{"message": "snapshot written", "entries": n})
	})

	admin.Post("/seasons/:id/close", func(c *fiber.Ctx) error {
		n, err := rewards.CloseSeason(c.Params("id"))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{"message": "season closed", "rewards_written": n})
	})

	admin.Post("/seasons/:id/distribute", func(c *fiber.Ctx) error {
		n, err := rewards.DistributeRewards(c.Params("id"))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{"message": "rewards distributed", "count": n})
	})

	admin.Post("/energy/refill", func(c *fiber.Ctx) error {
		var req struct {
			PlayerID string `json:"player_id"`
			Amount   *int64 `json:"amount"`
		}
		if err := c.BodyParser(&req); err != nil || req.PlayerID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "player_id required"})
		}

		e, err := energy.Refill(req.PlayerID, req.Amount)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(e)
	})

	admin.Post("/essences/grant", func(c *fiber.Ctx) error {
		var req struct {
			PlayerID string             `json:"player_id"`
			Kind     models.EssenceKind `json:"kind"`
			Amount   int64              `json:"amount"`
		}
		if err := c.BodyParser(&req); err != nil || req.PlayerID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "player_id required"})
		}

		e, err := essences.Credit(req.PlayerID, req.Kind, req.Amount)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(e)
	})
}
