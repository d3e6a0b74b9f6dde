package users

import (
	"github.com/gofiber/fiber/v2"

	"retronova/database"
	"retronova/helpers"
	"retronova/middlewares"
	"retronova/models"
)

type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Pseudo      *string `json:"pseudo"`
	PhoneNumber *string `json:"phone_number"`
}

// Profile returns the authenticated user's profile.
func Profile(c *fiber.Ctx) error {
	return helpers.JSONSuccess(c, "profile", middlewares.CurrentUser(c))
}

// UpdateProfile patches only the provided fields, re-checking uniqueness for
// pseudo and phone number.
func UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid JSON body")
	}

	user := middlewares.CurrentUser(c)

	if req.Pseudo != nil && *req.Pseudo != user.Pseudo {
		if pseudoTaken(*req.Pseudo, user.ID) {
			return helpers.JSONError(c, fiber.StatusBadRequest, "this pseudo is already taken")
		}
		user.Pseudo = *req.Pseudo
	}
	if req.PhoneNumber != nil && *req.PhoneNumber != user.PhoneNumber {
		if phoneTaken(*req.PhoneNumber, user.ID) {
			return helpers.JSONError(c, fiber.StatusBadRequest, "this phone number is already used")
		}
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if err := database.DB.Save(&user).Error; err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "profile updated", user)
}

func pseudoTaken(pseudo string, excludeID uint) bool {
	var count int64
	database.DB.Model(&models.User{}).
		Where("pseudo = ? AND id <> ? AND is_deleted = false", pseudo, excludeID).
		Count(&count)
	return count > 0
}

func phoneTaken(phone string, excludeID uint) bool {
	var count int64
	database.DB.Model(&models.User{}).
		Where("phone_number = ? AND id <> ? AND is_deleted = false", phone, excludeID).
		Count(&count)
	return count > 0
}
