package routes

import (
	"pricetracker/controllers"
	"pricetracker/middleware"

	"github.com/gofiber/fiber/v2"
)

func RegisterNotificationRoutes(app *fiber.App) {
	api := app.Group("/api/notifications", middleware.JWTMiddleware)

	api.Get("/", controllers.ListNotifications)
	api.Patch("/:id/read", controllers.MarkNotificationRead)
	api.Delete("/", controllers.ClearNotifications)
	api.Delete("/:id", controllers.DeleteNotification)
}
