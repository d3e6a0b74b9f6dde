package admin

import (
	"github.com/gofiber/fiber/v2"

	"retronova/database"
	"retronova/helpers"
	"retronova/services"
)

// CreateArcade registers a new venue and returns its generated API key. The
// key is shown once in full; later reads only expose a truncated form.
func CreateArcade(c *fiber.Ctx) error {
	var req services.CreateArcadeRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}

	created, err := services.NewArcadeService(database.DB).Create(req)
	if err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "arcade created", created)
}

func AssignGame(c *fiber.Ctx) error {
	arcadeID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid arcade id")
	}

	var req services.AssignGameRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}

	message, svcErr := services.NewArcadeService(database.DB).AssignGame(uint(arcadeID), req)
	if svcErr != nil {
		return helpers.Fail(c, svcErr)
	}
	return helpers.JSONSuccess(c, message, nil)
}

func DeleteArcade(c *fiber.Ctx) error {
	arcadeID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid arcade id")
	}

	result, svcErr := services.NewArcadeService(database.DB).SoftDelete(uint(arcadeID))
	if svcErr != nil {
		return helpers.Fail(c, svcErr)
	}
	return helpers.JSONSuccess(c, "arcade deleted", result)
}

func ListDeletedArcades(c *fiber.Ctx) error {
	arcades, err := services.NewArcadeService(database.DB).ListDeleted()
	if err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "deleted arcades", arcades)
}

func RestoreArcade(c *fiber.Ctx) error {
	arcadeID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid arcade id")
	}

	result, svcErr := services.NewArcadeService(database.DB).Restore(uint(arcadeID))
	if svcErr != nil {
		return helpers.Fail(c, svcErr)
	}
	return helpers.JSONSuccess(c, "arcade restored", result)
}

func RegenerateArcadeKey(c *fiber.Ctx) error {
	arcadeID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid arcade id")
	}

	result, svcErr := services.NewArcadeService(database.DB).RegenerateAPIKey(uint(arcadeID))
	if svcErr != nil {
		return helpers.Fail(c, svcErr)
	}
	return helpers.JSONSuccess(c, "API key regenerated", result)
}
