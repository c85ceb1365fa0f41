package handlers

import (
	"github.com/dgotpservice/dg-social-panel/services"
	"github.com/gofiber/fiber/v2"
)

// ListServices returns the commission-adjusted catalog. Prices shown here are
// the prices charged at order time; the raw provider rate never leaves the
// server.
func ListServices(c *fiber.Ctx) error {
	category := c.Query("category")

	priced, err := services.ListServices(category)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to load services"})
	}

	return c.JSON(fiber.Map{"data": priced})
}

func ListServiceCategories(c *fiber.Ctx) error {
	priced, err := services.ListServices("")
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to load services"})
	}

	seen := make(map[string]bool)
	categories := []string{}
	for _, s := range priced {
		if !seen[s.Category] {
			seen[s.Category] = true
			categories = append(categories, s.Category)
		}
	}

	return c.JSON(fiber.Map{"data": categories})
}
