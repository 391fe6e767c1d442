package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pricetracker/database"
	"pricetracker/models"
	"pricetracker/scheduler"
	"pricetracker/scraper"
)

type TrackProductRequest struct {
	URL      string `json:"url"`
	Platform string `json:"platform"`
}

// TrackProduct registers a product URL for tracking. The platform is taken
// from the body when given, otherwise inferred from the URL host. The product
// starts pending and its first recheck runs in the background.
func TrackProduct(c *fiber.Ctx) error {
	var req TrackProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.URL == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "url is required"})
	}

	var platform scraper.Platform
	var ok bool
	if req.Platform != "" {
		platform, ok = scraper.ParsePlatform(req.Platform)
	} else {
		platform, ok = scraper.PlatformFromURL(req.URL)
	}
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Unsupported platform"})
	}

	userID := currentUserID(c)

	var existing models.TrackedProduct
	if database.DB.First(&existing, "user_id = ? AND url = ?", userID, req.URL).Error == nil {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "Product is already tracked"})
	}

	product := models.TrackedProduct{
		UserID:   userID,
		Platform: string(platform),
		URL:      req.URL,
		Status:   models.ProductStatusPending,
	}
	if err := database.DB.Create(&product).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to track product"})
	}

	go func(id string) {
		if err := rechecker.CheckProduct(context.Background(), id); err != nil && !errors.Is(err, scheduler.ErrCheckInFlight) {
			logger.Warn("initial recheck failed", zap.String("product_id", id), zap.Error(err))
		}
	}(product.ID)

	return c.Status(http.StatusCreated).JSON(product)
}

// ListProducts returns the caller's tracked products, newest first.
func ListProducts(c *fiber.Ctx) error {
	var products []models.TrackedProduct
	if err := database.DB.Where("user_id = ?", currentUserID(c)).
		Order("created_at DESC").Find(&products).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(products)
}

// GetProduct returns one product with its retained price history, oldest
// observation first.
func GetProduct(c *fiber.Ctx) error {
	var product models.TrackedProduct
	if err := database.DB.First(&product, "id = ? AND user_id = ?", c.Params("id"), currentUserID(c)).Error; err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	since := time.Now().AddDate(0, 0, -cfg.HistoryRetentionDays)
	var history []models.PriceObservation
	if err := database.DB.Where("tracked_product_id = ? AND timestamp >= ?", product.ID, since).
		Order("timestamp ASC").Find(&history).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{"product": product, "history": history})
}

// DeleteProduct removes a product and everything attached to it: history,
// alerts, and notifications that reference it.
func DeleteProduct(c *fiber.Ctx) error {
	var product models.TrackedProduct
	if err := database.DB.First(&product, "id = ? AND user_id = ?", c.Params("id"), currentUserID(c)).Error; err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tracked_product_id = ?", product.ID).Delete(&models.PriceObservation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tracked_product_id = ?", product.ID).Delete(&models.Alert{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tracked_product_id = ?", product.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete product"})
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}
