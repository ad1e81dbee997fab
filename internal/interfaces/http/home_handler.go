package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// APIVersion versión publicada en el home de la API.
const APIVersion = "1.0"

// Home godoc
// @Summary      Estado de la API
// @Tags         home
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/ [get]
func Home(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    "Biashara Connect API",
		"status":  "running",
		"version": APIVersion,
		"date":    time.Now().UTC().Format("2006-01-02"),
	})
}

// Health godoc
// @Summary      Health check
// @Tags         home
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
