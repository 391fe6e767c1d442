package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RequestStatusPending = "pending"
	RequestStatusRunning = "running"
	RequestStatusDone    = "done"
	RequestStatusBlocked = "blocked"
	RequestStatusError   = "error"
)

// Request is a free-text "track by request" search job. Its candidates are
// replaced wholesale on every search run.
type Request struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	UserID        string    `json:"user_id" gorm:"size:36;index;not null"`
	Platform      string    `json:"platform" gorm:"size:16;not null"`
	Query         string    `json:"query" gorm:"not null"`
	MaxPrice      *float64  `json:"max_price"`
	Status        string    `json:"status" gorm:"size:16;default:pending"`
	BlockedReason *string   `json:"blocked_reason"`
	ErrorMessage  *string   `json:"error_message"`
	ResultCount   int       `json:"result_count"`
	SelectedURL   *string   `json:"selected_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (r *Request) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Candidate is one search-result listing attached to a Request. Position
// preserves the ranking order from the search run that produced it.
type Candidate struct {
	ID        string   `json:"id" gorm:"primaryKey;size:36"`
	RequestID string   `json:"request_id" gorm:"size:36;index;not null"`
	Title     *string  `json:"title"`
	Price     *float64 `json:"price"`
	Currency  string   `json:"currency" gorm:"size:8"`
	URL       string   `json:"url" gorm:"size:767;not null"`
	Image     *string  `json:"image"`
	Position  int      `json:"position"`
}

func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
