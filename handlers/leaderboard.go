// handlers/leaderboard.go
package handlers

import (
	"strconv"

	"season-economy-system/middleware"
	"season-economy-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupLeaderboardRoutes wires rank, paged standings and the neighborhood
// window around the caller.
func SetupLeaderboardRoutes(app *fiber.App, leaderboard *services.LeaderboardService) {
	secured := app.Group("/s", middleware.PlayerContextMiddleware())

	secured.Get("/seasons/:id/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		offset, _ := strconv.Atoi(c.Query("offset", "0"))

		rows, err := leaderboard.Leaderboard(c.Params("id"), limit, offset)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{
			"season_id": c.Params("id"),
			"limit":     limit,
			"offset":    offset,
			"entries":   rows,
		})
	})

	secured.Get("/seasons/:id/rank", func(c *fiber.Ctx) error {
		row, err := leaderboard.Rank(playerID(c), c.Params("id"))
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(row)
	})

	secured.Get("/seasons/:id/neighborhood", func(c *fiber.Ctx) error {
		radius, _ := strconv.ParseInt(c.Query("radius", "5"), 10, 64)

		rows, err := leaderboard.Neighborhood(playerID(c), c.Params("id"), radius)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{
			"season_id": c.Params("id"),
			"radius":    radius,
			"entries":   rows,
		})
	})
}
