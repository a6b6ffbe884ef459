package models

import "time"

// Notification — уведомление о событии по ставке.
type Notification struct {
	ID        ID        `json:"id"`
	Type      string    `json:"type"`
	BidID     ID        `json:"bid_id,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
