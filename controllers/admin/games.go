package admin

import (
	"github.com/gofiber/fiber/v2"

	"retronova/database"
	"retronova/helpers"
	"retronova/services"
)

func CreateGame(c *fiber.Ctx) error {
	var req services.CreateGameRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}

	game, err := services.NewGameService(database.DB).Create(req)
	if err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "game created", game)
}

func ListGames(c *fiber.Ctx) error {
	games, err := services.NewGameService(database.DB).List(c.QueryBool("include_deleted", false))
	if err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "games list", games)
}

func GetGame(c *fiber.Ctx) error {
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

func UpdateGame(c *fiber.Ctx) error {
	gameID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid game id")
	}

	var req services.UpdateGameRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}

	game, svcErr := services.NewGameService(database.DB).Update(uint(gameID), req)
	if svcErr != nil {
		return helpers.Fail(c, svcErr)
	}
	return helpers.JSONSuccess(c, "game updated", game)
}

func DeleteGame(c *fiber.Ctx) error {
	gameID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid game id")
	}

	result, svcErr := services.NewGameService(database.DB).SoftDelete(uint(gameID))
	if svcErr != nil {
		return helpers.Fail(c, svcErr)
	}
	return helpers.JSONSuccess(c, "game deleted", result)
}

func ListDeletedGames(c *fiber.Ctx) error {
	games, err := services.NewGameService(database.DB).ListDeleted()
	if err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "deleted games", games)
}

func RestoreGame(c *fiber.Ctx) error {
	gameID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid game id")
	}

	game, svcErr := services.NewGameService(database.DB).Restore(uint(gameID))
	if svcErr != nil {
		return helpers.Fail(c, svcErr)
	}
	return helpers.JSONSuccess(c, "game restored", game)
}

func GameStats(c *fiber.Ctx) error {
	gameID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid game id")
	}
	days := c.QueryInt("days", 30)
	if days < 1 {
		days = 30
	}

	stats, svcErr := services.NewGameService(database.DB).Stats(uint(gameID), days)
	if svcErr != nil {
		return helpers.Fail(c, svcErr)
	}
	return helpers.JSONSuccess(c, "game stats", stats)
}

func GameArcades(c *fiber.Ctx) error {
	gameID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid game id")
	}

	arcades, svcErr := services.NewGameService(database.DB).Arcades(uint(gameID))
	if svcErr != nil {
		return helpers.Fail(c, svcErr)
	}
	return helpers.JSONSuccess(c, "arcades offering this game", arcades)
}
