package routes

import (
	"github.com/dgotpservice/dg-social-panel/handlers"
	"github.com/dgotpservice/dg-social-panel/middleware"
	"github.com/gofiber/fiber/v2"
)

func SupportRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	tickets := api.Group("/tickets", middleware.Protected())
	tickets.Get("", handlers.GetMyTickets)
	tickets.Post("", middleware.ActiveRequired(), handlers.CreateTicket)

	apiKey := api.Group("/api-key", middleware.Protected())
	apiKey.Get("", handlers.GetAPIKey)
	apiKey.Post("", middleware.ActiveRequired(), handlers.GenerateAPIKey)

	api.Get("/referrals", middleware.Protected(), handlers.GetReferralStats)
}
