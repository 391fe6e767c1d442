package middleware

import (
	"pricetracker/models"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin runs after JWTMiddleware and rejects non-admin identities.
func RequireAdmin(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin access required"})
	}
	return c.Next()
}
