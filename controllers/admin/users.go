package admin

import (
	"github.com/gofiber/fiber/v2"

	"retronova/database"
	"retronova/helpers"
	"retronova/services"
)

type TicketUpdateRequest struct {
	UserID  uint `json:"user_id"`
	Tickets int  `json:"tickets"`
}

// UpdateUserTickets grants or deducts tickets. A deduction past zero leaves
// the balance at zero rather than failing.
func UpdateUserTickets(c *fiber.Ctx) error {
	var req TicketUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Tickets == 0 {
		return helpers.JSONError(c, fiber.StatusBadRequest, "tickets must be non-zero")
	}

	adj, err := services.NewUserService(database.DB).UpdateTickets(req.UserID, req.Tickets)
	if err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "tickets updated", adj)
}

func ListDeletedUsers(c *fiber.Ctx) error {
	users, err := services.NewUserService(database.DB).ListDeleted()
	if err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "deleted users", users)
}

func RestoreUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid user id")
	}

	user, svcErr := services.NewUserService(database.DB).Restore(uint(userID))
	if svcErr != nil {
		return helpers.Fail(c, svcErr)
	}
	return helpers.JSONSuccess(c, "user restored", user)
}

func DeleteUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid user id")
	}

	result, svcErr := services.NewUserService(database.DB).SoftDelete(uint(userID))
	if svcErr != nil {
		return helpers.Fail(c, svcErr)
	}
	return helpers.JSONSuccess(c, "user deleted", result)
}

func UserDeletionImpact(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid user id")
	}

	impact, svcErr := services.NewUserService(database.DB).DeletionImpact(uint(userID))
	if svcErr != nil {
		return helpers.Fail(c, svcErr)
	}
	return helpers.JSONSuccess(c, "deletion impact", impact)
}

func ForceCancelUserReservations(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid user id")
	}

	result, svcErr := services.NewUserService(database.DB).ForceCancelReservations(uint(userID))
	if svcErr != nil {
		return helpers.Fail(c, svcErr)
	}
	return helpers.JSONSuccess(c, "reservations cancelled", result)
}
