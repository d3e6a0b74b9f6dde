package auth

import (
	"github.com/gofiber/fiber/v2"

	"retronova/helpers"
	"retronova/middlewares"
)

// Me returns the authenticated account.
func Me(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	return helpers.JSONSuccess(c, "current user", user)
}
