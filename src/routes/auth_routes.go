package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/picshare/backend/src/controllers"
)

func AuthRoutes(app *fiber.App, ac *controllers.AuthController, protect fiber.Handler) {
	auth := app.Group("/api/v1/auth")

	auth.Post("/register", ac.Register)
	auth.Post("/login", ac.Login)
	auth.Get("/me", protect, ac.GetCurrentUser)
}
