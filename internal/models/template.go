package models

import "time"

// BidTemplate — сохранённый шаблон текста предложения.
type BidTemplate struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
