package routes

import (
	"pricetracker/controllers"
	"pricetracker/middleware"

	"github.com/gofiber/fiber/v2"
)

func RegisterRequestRoutes(app *fiber.App) {
	api := app.Group("/api/requests", middleware.JWTMiddleware)

	api.Post("/", controllers.CreateRequest)
	api.Get("/", controllers.ListRequests)
	api.Get("/:id", controllers.GetRequest)
	api.Post("/:id/select", controllers.SelectCandidate)
	api.Delete("/:id", controllers.DeleteRequest)
}
