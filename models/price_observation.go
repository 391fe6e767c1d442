package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceObservation is one point of a product's price history. Rows are
// append-only; retention pruning deletes old rows but nothing edits them.
type PriceObservation struct {
	ID               string    `json:"id" gorm:"primaryKey;size:36"`
	TrackedProductID string    `json:"tracked_product_id" gorm:"size:36;index:idx_observation_product_time,priority:1;not null"`
	Timestamp        time.Time `json:"timestamp" gorm:"index:idx_observation_product_time,priority:2;not null"`
	Price            float64   `json:"price" gorm:"not null"`
	Currency         string    `json:"currency" gorm:"size:8"`
}

func (o *PriceObservation) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
