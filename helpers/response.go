package helpers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// APIError is a domain failure carrying the HTTP status it maps to. Services
// return it and handlers forward it through Fail.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

func NotFound(message string) *APIError {
	return &APIError{Status: fiber.StatusNotFound, Message: message}
}

func BadRequest(message string) *APIError {
	return &APIError{Status: fiber.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *APIError {
	return &APIError{Status: fiber.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *APIError {
	return &APIError{Status: fiber.StatusForbidden, Message: message}
}

func JSONSuccess(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"data":    nil,
	})
}

// Fail translates a service error into the JSON error envelope. Router-level
// failures (unknown route, method not allowed, body limit) arrive as
// *fiber.Error and keep their status; anything else becomes a generic 500
// with no detail leakage.
func Fail(c *fiber.Ctx, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return JSONError(c, apiErr.Status, apiErr.Message)
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return JSONError(c, fiberErr.Code, fiberErr.Message)
	}
	return JSONError(c, fiber.StatusInternalServerError, "internal server error")
}
