package routes

import (
	"github.com/dgotpservice/dg-social-panel/handlers"
	"github.com/dgotpservice/dg-social-panel/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile/me", middleware.Protected())
	profile.Get("", handlers.GetProfile)
	profile.Put("", middleware.ActiveRequired(), handlers.UpdateProfile)
}
