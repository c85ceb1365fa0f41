package routes

import (
	"github.com/dgotpservice/dg-social-panel/handlers"
	"github.com/dgotpservice/dg-social-panel/middleware"
	"github.com/gofiber/fiber/v2"
)

func ServiceRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	services := api.Group("/services", middleware.Protected())
	services.Get("", handlers.ListServices)
	services.Get("/categories", handlers.ListServiceCategories)
}
