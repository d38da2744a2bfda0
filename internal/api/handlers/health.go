package handlers

import "github.com/gofiber/fiber/v2"

// Health provides a minimal liveness check endpoint.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
