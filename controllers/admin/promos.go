package admin

import (
	"github.com/gofiber/fiber/v2"

	"retronova/database"
	"retronova/helpers"
	"retronova/services"
)

func CreatePromoCode(c *fiber.Ctx) error {
	var req services.CreatePromoCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}

	promo, err := services.NewPromoService(database.DB).Create(req)
	if err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "promo code created", promo)
}

func ListPromoCodes(c *fiber.Ctx) error {
	promos, err := services.NewPromoService(database.DB).List(c.QueryBool("include_expired", false))
	if err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "promo codes", promos)
}

func UpdatePromoCode(c *fiber.Ctx) error {
	promoID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid promo code id")
	}

	var req services.UpdatePromoCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}

	promo, svcErr := services.NewPromoService(database.DB).Update(uint(promoID), req)
	if svcErr != nil {
		return helpers.Fail(c, svcErr)
	}
	return helpers.JSONSuccess(c, "promo code updated", promo)
}

func TogglePromoCode(c *fiber.Ctx) error {
	promoID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid promo code id")
	}

	promo, svcErr := services.NewPromoService(database.DB).ToggleActive(uint(promoID))
	if svcErr != nil {
		return helpers.Fail(c, svcErr)
	}

	message := "promo code deactivated"
	if promo.IsActive {
		message = "promo code activated"
	}
	return helpers.JSONSuccess(c, message, promo)
}

func ExpiringPromoCodes(c *fiber.Ctx) error {
	daysAhead := c.QueryInt("days_ahead", 7)
	if daysAhead < 1 {
		daysAhead = 7
	}

	promos, err := services.NewPromoService(database.DB).ExpiringSoon(daysAhead)
	if err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "promo codes expiring soon", promos)
}
