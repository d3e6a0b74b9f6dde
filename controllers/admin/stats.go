package admin

import (
	"github.com/gofiber/fiber/v2"

	"retronova/database"
	"retronova/helpers"
	"retronova/services"
)

func GlobalStats(c *fiber.Ctx) error {
	stats, err := services.NewStatsService(database.DB).Global()
	if err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "platform stats", stats)
}
