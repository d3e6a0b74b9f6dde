package middlewares

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"retronova/helpers"
)

// ArcadeAuth gates terminal endpoints with the shared X-API-Key header. The
// per-arcade key stored on each Arcade row identifies a terminal during
// provisioning and is not consulted here.
func ArcadeAuth(expectedKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("X-API-Key")
		if expectedKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(expectedKey)) != 1 {
			return helpers.JSONError(c, fiber.StatusUnauthorized, "invalid arcade API key")
		}
		return c.Next()
	}
}
