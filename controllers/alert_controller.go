package controllers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"pricetracker/database"
	"pricetracker/models"
)

type CreateAlertRequest struct {
	TrackedProductID  string   `json:"tracked_product_id"`
	TargetPrice       *float64 `json:"target_price"`
	DiscountThreshold *float64 `json:"discount_threshold"`
	NotifyOnce        *bool    `json:"notify_once"`
}

type UpdateAlertRequest struct {
	TargetPrice       *float64 `json:"target_price"`
	DiscountThreshold *float64 `json:"discount_threshold"`
	NotifyOnce        *bool    `json:"notify_once"`
	IsActive          *bool    `json:"is_active"`
}

// CreateAlert attaches a rule to one of the caller's tracked products. At
// least one of target_price / discount_threshold is required.
func CreateAlert(c *fiber.Ctx) error {
	var req CreateAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.TargetPrice == nil && req.DiscountThreshold == nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "At least one of target_price or discount_threshold is required"})
	}
	if req.TargetPrice != nil && *req.TargetPrice <= 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "target_price must be positive"})
	}
	if req.DiscountThreshold != nil && (*req.DiscountThreshold <= 0 || *req.DiscountThreshold > 100) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "discount_threshold must be between 0 and 100"})
	}

	userID := currentUserID(c)

	var product models.TrackedProduct
	if err := database.DB.First(&product, "id = ? AND user_id = ?", req.TrackedProductID, userID).Error; err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	alert := models.Alert{
		UserID:            userID,
		TrackedProductID:  product.ID,
		TargetPrice:       req.TargetPrice,
		DiscountThreshold: req.DiscountThreshold,
		NotifyOnce:        true,
		IsActive:          true,
	}
	if req.NotifyOnce != nil {
		alert.NotifyOnce = *req.NotifyOnce
	}

	if err := database.DB.Create(&alert).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create alert"})
	}
	return c.Status(http.StatusCreated).JSON(alert)
}

// ListAlerts returns the caller's alerts, optionally filtered by product via
// ?product_id=.
func ListAlerts(c *fiber.Ctx) error {
	q := database.DB.Where("user_id = ?", currentUserID(c))
	if productID := c.Query("product_id"); productID != "" {
		q = q.Where("tracked_product_id = ?", productID)
	}

	var alerts []models.Alert
	if err := q.Order("created_at DESC").Find(&alerts).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(alerts)
}

// UpdateAlert patches an alert. Re-activating a notify_once alert that has
// already fired resets its one-shot state so it can fire again.
func UpdateAlert(c *fiber.Ctx) error {
	var alert models.Alert
	if err := database.DB.First(&alert, "id = ? AND user_id = ?", c.Params("id"), currentUserID(c)).Error; err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Alert not found"})
	}

	var req UpdateAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.TargetPrice != nil {
		if *req.TargetPrice <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "target_price must be positive"})
		}
		alert.TargetPrice = req.TargetPrice
	}
	if req.DiscountThreshold != nil {
		if *req.DiscountThreshold <= 0 || *req.DiscountThreshold > 100 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "discount_threshold must be between 0 and 100"})
		}
		alert.DiscountThreshold = req.DiscountThreshold
	}
	if req.NotifyOnce != nil {
		alert.NotifyOnce = *req.NotifyOnce
	}
	if req.IsActive != nil {
		if *req.IsActive && !alert.IsActive {
			alert.HasNotifiedOnce = false
		}
		alert.IsActive = *req.IsActive
	}

	if alert.TargetPrice == nil && alert.DiscountThreshold == nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Alert must keep at least one condition"})
	}

	if err := database.DB.Save(&alert).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update alert"})
	}
	return c.JSON(alert)
}

// DeleteAlert removes one of the caller's alerts.
func DeleteAlert(c *fiber.Ctx) error {
	res := database.DB.Where("id = ? AND user_id = ?", c.Params("id"), currentUserID(c)).Delete(&models.Alert{})
	if res.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete alert"})
	}
	if res.RowsAffected == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Alert not found"})
	}
	return c.JSON(fiber.Map{"message": "Alert deleted successfully"})
}
