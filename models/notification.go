package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ChannelEmail = "email"
	ChannelInApp = "in_app"

	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"

	NotificationTypePriceAlert = "price_alert"
)

type Notification struct {
	ID               string    `json:"id" gorm:"primaryKey;size:36"`
	UserID           string    `json:"user_id" gorm:"size:36;index;not null"`
	TrackedProductID *string   `json:"tracked_product_id" gorm:"size:36;index"`
	Channel          string    `json:"channel" gorm:"size:16;not null"`
	Type             string    `json:"type" gorm:"size:32"`
	Message          string    `json:"message"`
	Status           string    `json:"status" gorm:"size:16;default:pending"`
	SentAt           time.Time `json:"sent_at"`
	Read             bool      `json:"read" gorm:"default:false"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
