package handler

import (
	"github.com/gofiber/fiber/v2"
)

// errorResponse writes the standard failure body
func errorResponse(c *fiber.Ctx, status int, message string, details any) error {
	response := fiber.Map{
		"success": false,
		"error":   message,
	}
	switch d := details.(type) {
	case nil:
	case error:
		response["details"] = d.Error()
	default:
		response["details"] = d
	}
	return c.Status(status).JSON(response)
}

// successResponse wraps data in the standard success body
func successResponse(data any) fiber.Map {
	return fiber.Map{
		"success": true,
		"data":    data,
	}
}
