package routes

import (
	"pricetracker/controllers"
	"pricetracker/middleware"

	"github.com/gofiber/fiber/v2"
)

func RegisterAlertRoutes(app *fiber.App) {
	api := app.Group("/api/alerts", middleware.JWTMiddleware)

	api.Post("/", controllers.CreateAlert)
	api.Get("/", controllers.ListAlerts)
	api.Patch("/:id", controllers.UpdateAlert)
	api.Delete("/:id", controllers.DeleteAlert)
}
