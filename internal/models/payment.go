package models

import "time"

// Статусы платежей
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment представляет платёж по принятой ставке.
// Авторитетным считается единственный платёж в статусе completed.
type Payment struct {
	ID            ID         `json:"id"`
	BidID         ID         `json:"bid_id"`
	Status        string     `json:"status"`
	Amount        float64    `json:"amount"`
	ReceiptNumber string     `json:"receipt_number,omitempty"`
	Method        string     `json:"payment_method,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// IsCompleted сообщает, что платёж проведён.
func (p *Payment) IsCompleted() bool {
	return p != nil && p.Status == PaymentStatusCompleted
}

// PaymentOrder — дескриптор заказа на оплату для виджета провайдера.
type PaymentOrder struct {
	OrderID   string  `json:"order_id"`
	BidID     ID      `json:"bid_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	WidgetURL string  `json:"widget_url"`
}

// PaymentCallback — подписанный результат работы виджета.
// Пересылается на сервис ставок для серверной верификации как есть.
type PaymentCallback struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}
