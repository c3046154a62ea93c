// handlers/season.go
package handlers

import (
	"strconv"

	"season-economy-system/middleware"
	"season-economy-system/models"
	"season-economy-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupSeasonRoutes wires season resolution, per-season stats and the point
// accrual endpoint the gameplay layer calls after each round.
func SetupSeasonRoutes(app *fiber.App, seasons *services.SeasonService, stats *services.StatsService) {
	secured := app.Group("/s", middleware.PlayerContextMiddleware())

	secured.Get("/seasons/current", func(c *fiber.Ctx) error {
		season, err := seasons.Current()
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(season)
	})

	secured.Get("/seasons/upcoming", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		list, err := seasons.Upcoming(limit)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(list)
	})

	secured.Get("/seasons/past", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		list, err := seasons.Past(limit)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(list)
	})

	secured.Get("/seasons/:id", func(c *fiber.Ctx) error {
		season, err := seasons.ByID(c.Params("id"))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(season)
	})

	secured.Get("/seasons/:id/stats", func(c *fiber.Ctx) error {
		st, err := stats.Get(playerID(c), c.Params("id"))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{
			"stats": st,
			"tier":  models.TierForPoints(st.Points),
		})
	})

	// The gameplay layer reports a finished round here: energy was consumed
	// before the round, points and outcome were computed externally.
	secured.Post("/seasons/:id/games", func(c *fiber.Ctx) error {
		var req struct {
			Points int64 `json:"points"`
			Won    bool  `json:"won"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		seasonID := c.Params("id")
		pid := playerID(c)

		// Ranked play is gated on the entry ticket before points move.
		st, err := stats.Get(pid, seasonID)
		if err != nil {
			return respondErr(c, err)
		}
		if !st.HasEntryTicket {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "entry ticket required for ranked play",
			})
		}

		updated, err := stats.Award(pid, seasonID, req.Points, req.Won)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{
			"stats": updated,
			"tier":  models.TierForPoints(updated.Points),
		})
	})
}
