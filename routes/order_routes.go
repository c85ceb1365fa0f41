package routes

import (
	"github.com/dgotpservice/dg-social-panel/handlers"
	"github.com/dgotpservice/dg-social-panel/middleware"
	"github.com/gofiber/fiber/v2"
)

func OrderRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	orders := api.Group("/orders", middleware.Protected())
	orders.Get("", handlers.GetMyOrders)
	orders.Post("", middleware.ActiveRequired(), handlers.PlaceOrder)
	orders.Post("/:orderId/refill", middleware.ActiveRequired(), handlers.RequestRefill)

	api.Get("/refills", middleware.Protected(), handlers.GetMyRefills)
}
