// Package alerts decides when a new price observation should notify a user.
package alerts

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pricetracker/database"
	"pricetracker/metrics"
	"pricetracker/models"
	"pricetracker/notify"
)

// Triggered pairs a fired alert with its human-readable reasons.
type Triggered struct {
	Alert   models.Alert
	Reasons []string
}

// DiscountPercent is the drop from previous to current as a percentage of
// previous. Never negative.
func DiscountPercent(previous, current float64) float64 {
	if previous <= 0 {
		return 0
	}
	disc := (previous - current) / previous * 100
	if disc < 0 {
		return 0
	}
	return disc
}

// Evaluate applies the alert rules to a new observation. No alert fires on a
// product's first-ever observation: previousPrice is the baseline for both
// rules' one-shot bookkeeping and the discount formula.
//
// Rules:
//   - target_price: fires when newPrice <= target
//   - discount_threshold: fires when the drop from previousPrice meets the
//     threshold
//   - notify_once alerts that already notified never fire again
func Evaluate(productAlerts []models.Alert, newPrice float64, previousPrice *float64, currency string) []Triggered {
	if previousPrice == nil {
		return nil
	}

	var out []Triggered
	for _, a := range productAlerts {
		if !a.IsActive {
			continue
		}
		if a.NotifyOnce && a.HasNotifiedOnce {
			continue
		}

		var reasons []string
		if a.TargetPrice != nil && newPrice <= *a.TargetPrice {
			reasons = append(reasons, fmt.Sprintf("Price is now %.2f %s (<= target %.2f).", newPrice, currency, *a.TargetPrice))
		}
		if a.DiscountThreshold != nil {
			if disc := DiscountPercent(*previousPrice, newPrice); disc >= *a.DiscountThreshold {
				reasons = append(reasons, fmt.Sprintf("Discount is %.1f%% (>= %.1f%%).", disc, *a.DiscountThreshold))
			}
		}

		if len(reasons) > 0 {
			out = append(out, Triggered{Alert: a, Reasons: reasons})
		}
	}
	return out
}

// Engine evaluates alerts against new observations and records the resulting
// notifications.
type Engine struct {
	mailer notify.Provider
	logger *zap.Logger
	now    func() time.Time
}

func NewEngine(mailer notify.Provider, logger *zap.Logger) *Engine {
	return &Engine{mailer: mailer, logger: logger, now: time.Now}
}

// Fire evaluates the product's active alerts against newPrice and creates one
// notification per channel (email + in_app) for each fired alert. notify_once
// alerts are marked notified whether or not email delivery succeeded.
func (e *Engine) Fire(ctx context.Context, product *models.TrackedProduct, newPrice float64, previousPrice *float64) error {
	db := database.DB

	var productAlerts []models.Alert
	if err := db.Where("tracked_product_id = ? AND is_active = ?", product.ID, true).
		Find(&productAlerts).Error; err != nil {
		return fmt.Errorf("load alerts: %w", err)
	}

	triggered := Evaluate(productAlerts, newPrice, previousPrice, product.Currency)
	if len(triggered) == 0 {
		return nil
	}

	title := "(unknown)"
	if product.Title != nil {
		title = *product.Title
	}

	var user models.User
	haveUser := db.First(&user, "id = ?", product.UserID).Error == nil

	for _, t := range triggered {
		message := fmt.Sprintf("Deal alert for '%s' on %s.\n", title, product.Platform)
		for _, r := range t.Reasons {
			message += r + "\n"
		}
		message += "URL: " + product.URL

		e.record(product, models.ChannelInApp, message, models.NotificationStatusSent)

		emailStatus := models.NotificationStatusSent
		if haveUser && user.Email != "" {
			subject := fmt.Sprintf("Price Alert: %s", truncate(title, 50))
			if err := e.mailer.Send(ctx, user.Email, subject, message); err != nil {
				e.logger.Warn("alert email failed",
					zap.String("product_id", product.ID),
					zap.Error(err))
				emailStatus = models.NotificationStatusFailed
			}
		} else {
			emailStatus = models.NotificationStatusFailed
		}
		e.record(product, models.ChannelEmail, message, emailStatus)

		metrics.AlertsFired.Inc()

		if t.Alert.NotifyOnce {
			if err := db.Model(&models.Alert{}).Where("id = ?", t.Alert.ID).
				Update("has_notified_once", true).Error; err != nil {
				return fmt.Errorf("mark alert notified: %w", err)
			}
		}

		e.logger.Info("alert fired",
			zap.String("alert_id", t.Alert.ID),
			zap.String("product_id", product.ID),
			zap.Float64("price", newPrice))
	}

	return nil
}

func (e *Engine) record(product *models.TrackedProduct, channel, message, status string) {
	n := models.Notification{
		UserID:           product.UserID,
		TrackedProductID: &product.ID,
		Channel:          channel,
		Type:             models.NotificationTypePriceAlert,
		Message:          message,
		Status:           status,
		SentAt:           e.now(),
	}
	if err := database.DB.Create(&n).Error; err != nil {
		e.logger.Error("store notification failed", zap.Error(err))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
