package models

import "time"

// Attachment — файл, приложенный к ставке.
type Attachment struct {
	ID          ID        `json:"id"`
	BidID       ID        `json:"bid_id"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Milestone — этап работ по ставке.
type Milestone struct {
	ID      ID         `json:"id"`
	BidID   ID         `json:"bid_id"`
	Title   string     `json:"title"`
	Amount  float64    `json:"amount"`
	Status  string     `json:"status"`
	DueDate *time.Time `json:"due_date,omitempty"`
}
