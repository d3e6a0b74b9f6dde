package games

import (
	"github.com/gofiber/fiber/v2"

	"retronova/database"
	"retronova/helpers"
	"retronova/services"
)

// List returns the game catalogue. Public, deleted games excluded.
func List(c *fiber.Ctx) error {
	games, err := services.NewGameService(database.DB).List(false)
	if err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "games list", games)
}

// Get returns one game by id.
func Get(c *fiber.Ctx) error {
	gameID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid game id")
	}

	game, svcErr := services.NewGameService(database.DB).Get(uint(gameID))
	if svcErr != nil {
		return helpers.Fail(c, svcErr)
	}
	return helpers.JSONSuccess(c, "game details", game)
}
