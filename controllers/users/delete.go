package users

import (
	"github.com/gofiber/fiber/v2"

	"retronova/database"
	"retronova/helpers"
	"retronova/middlewares"
	"retronova/services"
)

// DeleteAccount soft-deletes the authenticated user's own account. The same
// rules as an admin deletion apply: active reservations block it and related
// rows are cascaded.
func DeleteAccount(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	result, err := services.NewUserService(database.DB).SoftDelete(user.ID)
	if err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "account deleted", result)
}
