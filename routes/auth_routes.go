package routes

import (
	"pricetracker/controllers"
	"pricetracker/middleware"

	"github.com/gofiber/fiber/v2"
)

func RegisterAuthRoutes(app *fiber.App) {
	api := app.Group("/api/auth")

	api.Post("/register", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Get("/me", middleware.JWTMiddleware, controllers.Me)
}
