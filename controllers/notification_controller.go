package controllers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"pricetracker/database"
	"pricetracker/models"
)

// ListNotifications returns the caller's notifications, newest first.
// ?unread=true narrows to unread ones.
func ListNotifications(c *fiber.Ctx) error {
	q := database.DB.Where("user_id = ?", currentUserID(c))
	if c.Query("unread") == "true" {
		q = q.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := q.Order("sent_at DESC").Find(&notifications).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(notifications)
}

// MarkNotificationRead flags one notification as read.
func MarkNotificationRead(c *fiber.Ctx) error {
	res := database.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", c.Params("id"), currentUserID(c)).
		Update("read", true)
	if res.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if res.RowsAffected == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// DeleteNotification removes one notification.
func DeleteNotification(c *fiber.Ctx) error {
	res := database.DB.Where("id = ? AND user_id = ?", c.Params("id"), currentUserID(c)).
		Delete(&models.Notification{})
	if res.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if res.RowsAffected == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}
	return c.JSON(fiber.Map{"message": "Notification deleted successfully"})
}

// ClearNotifications removes all of the caller's notifications.
func ClearNotifications(c *fiber.Ctx) error {
	res := database.DB.Where("user_id = ?", currentUserID(c)).Delete(&models.Notification{})
	if res.Error != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"message": "Notifications cleared", "deleted": res.RowsAffected})
}
