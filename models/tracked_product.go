package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tracked product lifecycle. A product starts pending and moves to active on
// its first successful recheck; blocked and error are both recoverable.
const (
	ProductStatusPending = "pending"
	ProductStatusActive  = "active"
	ProductStatusBlocked = "blocked"
	ProductStatusError   = "error"
)

type TrackedProduct struct {
	ID             string     `json:"id" gorm:"primaryKey;size:36"`
	UserID         string     `json:"user_id" gorm:"size:36;index;uniqueIndex:uniq_user_url,priority:1;not null"`
	Platform       string     `json:"platform" gorm:"size:16;not null"`
	URL            string     `json:"url" gorm:"size:767;uniqueIndex:uniq_user_url,priority:2;not null"`
	Title          *string    `json:"title"`
	Image          *string    `json:"image"`
	CurrentPrice   *float64   `json:"current_price"`
	ReferencePrice *float64   `json:"reference_price"`
	Currency       string     `json:"currency" gorm:"size:8"`
	Status         string     `json:"status" gorm:"size:16;default:pending"`
	BlockedReason  *string    `json:"blocked_reason"`
	LastChecked    *time.Time `json:"last_checked"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (p *TrackedProduct) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
