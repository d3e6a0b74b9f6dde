package middlewares

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"retronova/database"
	"retronova/helpers"
	"retronova/models"
)

// The platform has two isolated trust domains: user tokens and admin tokens
// are signed by different identity configurations and never interchangeable.

func bearerSubject(c *fiber.Ctx, secret string) (string, error) {
	auth := c.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", errors.New("missing bearer token")
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", errors.New("invalid token")
	}

	sub, err := tok.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

// TokenAuth verifies a user-domain token without requiring a user row. The
// register endpoint sits behind it so a verified identity can create (or
// reactivate) its account.
func TokenAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sub, err := bearerSubject(c, secret)
		if err != nil {
			return helpers.JSONError(c, fiber.StatusUnauthorized, "invalid user token")
		}
		c.Locals("auth_uid", sub)
		return c.Next()
	}
}

// UserAuth verifies a user-domain token and loads the matching live account.
func UserAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sub, err := bearerSubject(c, secret)
		if err != nil {
			return helpers.JSONError(c, fiber.StatusUnauthorized, "invalid user token")
		}

		var user models.User
		if err := database.DB.Where("auth_uid = ? AND is_deleted = false", sub).First(&user).Error; err != nil {
			return helpers.JSONError(c, fiber.StatusNotFound, "user not found")
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// AdminAuth verifies an admin-domain token. Admin identities have no row in
// the users table; the subject is kept for audit logging only.
func AdminAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sub, err := bearerSubject(c, secret)
		if err != nil {
			return helpers.JSONError(c, fiber.StatusUnauthorized, "invalid admin token")
		}
		c.Locals("admin_uid", sub)
		return c.Next()
	}
}

// CurrentUser returns the account stored by UserAuth.
func CurrentUser(c *fiber.Ctx) models.User {
	user, _ := c.Locals("user").(models.User)
	return user
}
