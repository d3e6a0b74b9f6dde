package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"retronova/database"
	"retronova/helpers"
	"retronova/models"
)

type RegisterRequest struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Pseudo      string `json:"pseudo"`
	BirthDate   string `json:"birth_date"`
	PhoneNumber string `json:"phone_number"`
}

// Register creates the account for a verified identity. Re-registering a
// soft-deleted account reactivates it with the submitted profile fields.
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid JSON body")
	}

	authUID, _ := c.Locals("auth_uid").(string)

	if req.Email == "" || req.Pseudo == "" || req.PhoneNumber == "" {
		return helpers.JSONError(c, fiber.StatusBadRequest, "email, pseudo and phone_number are required")
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "birth_date must be YYYY-MM-DD")
	}

	var existing models.User
	err = database.DB.Where("auth_uid = ?", authUID).First(&existing).Error
	if err == nil {
		if !existing.IsDeleted {
			return helpers.JSONError(c, fiber.StatusBadRequest, "user already registered")
		}
		if taken(database.DB, "pseudo", req.Pseudo, existing.ID) {
			return helpers.JSONError(c, fiber.StatusBadRequest, "this pseudo is already taken")
		}
		if taken(database.DB, "phone_number", req.PhoneNumber, existing.ID) {
			return helpers.JSONError(c, fiber.StatusBadRequest, "this phone number is already used")
		}
		if taken(database.DB, "email", req.Email, existing.ID) {
			return helpers.JSONError(c, fiber.StatusBadRequest, "this email is already used")
		}
		existing.Restore()
		existing.Email = req.Email
		existing.FirstName = req.FirstName
		existing.LastName = req.LastName
		existing.Pseudo = req.Pseudo
		existing.BirthDate = birthDate
		existing.PhoneNumber = req.PhoneNumber
		if err := database.DB.Save(&existing).Error; err != nil {
			return helpers.Fail(c, err)
		}
		return helpers.JSONSuccess(c, "user reactivated", existing)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return helpers.Fail(c, err)
	}

	if taken(database.DB, "pseudo", req.Pseudo, 0) {
		return helpers.JSONError(c, fiber.StatusBadRequest, "this pseudo is already taken")
	}
	if taken(database.DB, "phone_number", req.PhoneNumber, 0) {
		return helpers.JSONError(c, fiber.StatusBadRequest, "this phone number is already used")
	}
	if taken(database.DB, "email", req.Email, 0) {
		return helpers.JSONError(c, fiber.StatusBadRequest, "this email is already used")
	}

	user := models.User{
		AuthUID:     authUID,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Pseudo:      req.Pseudo,
		BirthDate:   birthDate,
		PhoneNumber: req.PhoneNumber,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "failed to register user")
	}

	return helpers.JSONSuccess(c, "user registered", user)
}

func taken(db *gorm.DB, column, value string, excludeID uint) bool {
	var count int64
	db.Model(&models.User{}).
		Where(column+" = ? AND is_deleted = false AND id <> ?", value, excludeID).
		Count(&count)
	return count > 0
}
