package routes

import (
	"github.com/dgotpservice/dg-social-panel/handlers"
	"github.com/dgotpservice/dg-social-panel/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	payments := api.Group("/payments", middleware.Protected())
	payments.Get("", handlers.GetMyPayments)
	payments.Get("/qr", handlers.GetPaymentQR)
	payments.Post("", middleware.ActiveRequired(), handlers.SubmitPayment)
}
