package routes

import (
	"pricetracker/controllers"
	"pricetracker/middleware"

	"github.com/gofiber/fiber/v2"
)

func RegisterAdminRoutes(app *fiber.App) {
	api := app.Group("/api/admin", middleware.JWTMiddleware, middleware.RequireAdmin)

	api.Get("/users", controllers.AdminListUsers)
	api.Get("/products", controllers.AdminListProducts)
	api.Get("/jobs", controllers.AdminListJobs)
	api.Post("/recheck/:product_id", controllers.AdminForceRecheck)
}
