package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobLog records one scheduler or search job run, for the admin view.
type JobLog struct {
	ID               string    `json:"id" gorm:"primaryKey;size:36"`
	JobType          string    `json:"job_type" gorm:"size:32;not null"`
	Platform         *string   `json:"platform" gorm:"size:16"`
	TrackedProductID *string   `json:"tracked_product_id" gorm:"size:36"`
	Status           string    `json:"status" gorm:"size:16"`
	ErrorMessage     *string   `json:"error_message"`
	RanAt            time.Time `json:"ran_at" gorm:"index"`
}

func (j *JobLog) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}
