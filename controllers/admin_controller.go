package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"pricetracker/database"
	"pricetracker/models"
	"pricetracker/scheduler"
)

// AdminListUsers returns all user accounts.
func AdminListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(users)
}

// AdminListProducts returns every tracked product across all users, optionally
// filtered by ?status=.
func AdminListProducts(c *fiber.Ctx) error {
	q := database.DB.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var products []models.TrackedProduct
	if err := q.Find(&products).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(products)
}

// AdminListJobs returns recent job log entries, newest first. ?limit= caps the
// result (default 100).
func AdminListJobs(c *fiber.Ctx) error {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	var jobs []models.JobLog
	if err := database.DB.Order("ran_at DESC").Limit(limit).Find(&jobs).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(jobs)
}

// AdminForceRecheck runs an immediate recheck for one product. If a recheck
// is already in flight it counts as this one.
func AdminForceRecheck(c *fiber.Ctx) error {
	productID := c.Params("product_id")

	var product models.TrackedProduct
	if err := database.DB.First(&product, "id = ?", productID).Error; err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	if err := rechecker.CheckProduct(c.Context(), productID); err != nil {
		if errors.Is(err, scheduler.ErrCheckInFlight) {
			return c.Status(http.StatusAccepted).JSON(fiber.Map{"message": "Recheck already in progress"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Recheck failed"})
	}

	if err := database.DB.First(&product, "id = ?", productID).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(product)
}
