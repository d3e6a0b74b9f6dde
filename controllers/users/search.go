package users

import (
	"github.com/gofiber/fiber/v2"

	"retronova/database"
	"retronova/helpers"
	"retronova/middlewares"
	"retronova/models"
)

type SearchResult struct {
	ID     uint   `json:"id"`
	Pseudo string `json:"pseudo"`
}

// Search matches other users by pseudo, first or last name.
func Search(c *fiber.Ctx) error {
	q := c.Query("q")
	if len(q) < 2 {
		return helpers.JSONError(c, fiber.StatusBadRequest, "query must be at least 2 characters")
	}
	limit := c.QueryInt("limit", 10)
	if limit > 50 {
		limit = 50
	}

	user := middlewares.CurrentUser(c)
	pattern := "%" + q + "%"

	var matches []models.User
	if err := database.DB.
		Where("is_deleted = false AND id <> ?", user.ID).
		Where("pseudo LIKE ? OR first_name LIKE ? OR last_name LIKE ?", pattern, pattern, pattern).
		Limit(limit).
		Find(&matches).Error; err != nil {
		return helpers.Fail(c, err)
	}

	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, SearchResult{ID: m.ID, Pseudo: m.Pseudo})
	}
	return helpers.JSONSuccess(c, "users found", results)
}
