package routes

import (
	"github.com/dgotpservice/dg-social-panel/handlers"
	"github.com/dgotpservice/dg-social-panel/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/dashboard-analytics", handlers.GetDashboardAnalytics)

	admin.Get("/payment-requests", handlers.ListPaymentRequests)
	admin.Post("/payment-requests/:requestId/process", handlers.ProcessPaymentRequest)

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Put("/:userId/status", handlers.SetUserStatus)
	users.Put("/:userId/role", handlers.PromoteUser)
	users.Put("/:userId/balance", handlers.EditUserBalance)

	admin.Get("/commission", handlers.GetCommission)
	admin.Put("/commission", handlers.UpdateCommission)

	tickets := admin.Group("/tickets")
	tickets.Get("", handlers.AdminGetTickets)
	tickets.Put("/:ticketId/close", handlers.CloseTicket)
}
