package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pricetracker/database"
	"pricetracker/models"
	"pricetracker/requests"
	"pricetracker/scheduler"
	"pricetracker/scraper"
	"pricetracker/search"
)

type CreateRequestRequest struct {
	Platform string   `json:"platform"`
	Query    string   `json:"query"`
	MaxPrice *float64 `json:"max_price"`
}

type SelectCandidateRequest struct {
	URL string `json:"url"`
}

// CreateRequest submits a free-text track request. Processing starts in the
// background immediately; the scheduler cycle also sweeps anything left
// pending.
func CreateRequest(c *fiber.Ctx) error {
	var req CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "query is required"})
	}
	platform, ok := scraper.ParsePlatform(req.Platform)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Unsupported platform"})
	}
	if _, ok := search.ForPlatform(platform); !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Search is not supported on this platform"})
	}
	if req.MaxPrice != nil && *req.MaxPrice <= 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "max_price must be positive"})
	}

	request := models.Request{
		UserID:   currentUserID(c),
		Platform: string(platform),
		Query:    req.Query,
		MaxPrice: req.MaxPrice,
		Status:   models.RequestStatusPending,
	}
	if err := database.DB.Create(&request).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create request"})
	}

	go func(id string) {
		if err := pipeline.Process(context.Background(), id); err != nil {
			logger.Warn("request processing failed", zap.String("request_id", id), zap.Error(err))
		}
	}(request.ID)

	return c.Status(http.StatusCreated).JSON(request)
}

// ListRequests returns the caller's track requests, newest first.
func ListRequests(c *fiber.Ctx) error {
	var reqs []models.Request
	if err := database.DB.Where("user_id = ?", currentUserID(c)).
		Order("created_at DESC").Find(&reqs).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(reqs)
}

// GetRequest returns one request with its ranked candidates.
func GetRequest(c *fiber.Ctx) error {
	var request models.Request
	if err := database.DB.First(&request, "id = ? AND user_id = ?", c.Params("id"), currentUserID(c)).Error; err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
	}

	var candidates []models.Candidate
	if err := database.DB.Where("request_id = ?", request.ID).
		Order("position ASC").Find(&candidates).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{"request": request, "candidates": candidates})
}

// SelectCandidate promotes a candidate into a tracked product and kicks off
// its first recheck. Products already promoted from this request are not
// affected by later request deletion.
func SelectCandidate(c *fiber.Ctx) error {
	var req SelectCandidateRequest
	if err := c.BodyParser(&req); err != nil || req.URL == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "url is required"})
	}

	product, err := pipeline.Select(c.Params("id"), currentUserID(c), req.URL)
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrCandidateNotFound):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "URL is not a candidate of this request"})
		case errors.Is(err, requests.ErrAlreadyTracked):
			return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "Product is already tracked"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to select candidate"})
	}

	go func(id string) {
		if err := rechecker.CheckProduct(context.Background(), id); err != nil && !errors.Is(err, scheduler.ErrCheckInFlight) {
			logger.Warn("initial recheck failed", zap.String("product_id", id), zap.Error(err))
		}
	}(product.ID)

	return c.Status(http.StatusCreated).JSON(product)
}

// DeleteRequest removes a request and its candidates. Tracked products
// promoted from it stay.
func DeleteRequest(c *fiber.Ctx) error {
	var request models.Request
	if err := database.DB.First(&request, "id = ? AND user_id = ?", c.Params("id"), currentUserID(c)).Error; err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id = ?", request.ID).Delete(&models.Candidate{}).Error; err != nil {
			return err
		}
		return tx.Delete(&request).Error
	})
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete request"})
	}

	return c.JSON(fiber.Map{"message": "Request deleted successfully"})
}
