package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alert is a user rule on one tracked product. At least one of TargetPrice or
// DiscountThreshold is set; controllers enforce that at creation.
type Alert struct {
	ID                string    `json:"id" gorm:"primaryKey;size:36"`
	UserID            string    `json:"user_id" gorm:"size:36;index;not null"`
	TrackedProductID  string    `json:"tracked_product_id" gorm:"size:36;index;not null"`
	TargetPrice       *float64  `json:"target_price"`
	DiscountThreshold *float64  `json:"discount_threshold"`
	NotifyOnce        bool      `json:"notify_once" gorm:"default:true"`
	HasNotifiedOnce   bool      `json:"has_notified_once" gorm:"default:false"`
	IsActive          bool      `json:"is_active" gorm:"default:true"`
	CreatedAt         time.Time `json:"created_at"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
