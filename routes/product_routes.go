package routes

import (
	"pricetracker/controllers"
	"pricetracker/middleware"

	"github.com/gofiber/fiber/v2"
)

func RegisterProductRoutes(app *fiber.App) {
	api := app.Group("/api/products", middleware.JWTMiddleware)

	api.Post("/", controllers.TrackProduct)
	api.Get("/", controllers.ListProducts)
	api.Get("/:id", controllers.GetProduct)
	api.Delete("/:id", controllers.DeleteProduct)
}
