package helpers

import (
	"LINKUP_server/schemas"

	"github.com/gofiber/fiber/v2"
)

// OKResponse sends a successful request/response
func OKResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(schemas.Response{
		Success: true,
		Message: message,
	})
}

// DataResponse sends a successful request/response with a data payload
func DataResponse(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(schemas.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}
