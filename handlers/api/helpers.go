package api

import (
	"github.com/gofiber/fiber/v2"
)

func success(c *fiber.Ctx, message string, payload fiber.Map) error {
	body := fiber.Map{"status": "success", "message": message}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(body)
}

func fail(c *fiber.Ctx, code int, err error) error {
	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"message": err.Error(),
	})
}
