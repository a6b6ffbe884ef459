package models

import (
	"time"

	"github.com/rizanep/kamcom-bids/internal/domain/valueobject"
)

// Типы ставок
const (
	BidTypeFixed  = "fixed"
	BidTypeHourly = "hourly"
)

// Статусы ставок
const (
	BidStatusPending   = "pending"
	BidStatusAccepted  = "accepted"
	BidStatusRejected  = "rejected"
	BidStatusWithdrawn = "withdrawn"
	BidStatusExpired   = "expired"
)

// FreelancerProfile — вложенный профиль исполнителя в составе ставки.
type FreelancerProfile struct {
	ID     ID       `json:"id,omitempty"`
	UserID ID       `json:"user_id,omitempty"`
	Name   string   `json:"name,omitempty"`
	Skills []string `json:"skills,omitempty"`
}

// Bid представляет ставку (отклик) исполнителя на заказ.
type Bid struct {
	ID                ID                 `json:"id"`
	JobID             ID                 `json:"job_id"`
	JobTitle          string             `json:"job_title,omitempty"`
	UserID            ID                 `json:"user_id,omitempty"`
	FreelancerID      ID                 `json:"freelancer_id,omitempty"`
	Freelancer        ID                 `json:"freelancer,omitempty"`
	FreelancerName    string             `json:"freelancer_name,omitempty"`
	ClientName        string             `json:"client_name,omitempty"`
	FreelancerProfile *FreelancerProfile `json:"freelancer_profile,omitempty"`
	BidType           string             `json:"bid_type"`
	TotalAmount       *float64           `json:"total_amount,omitempty"`
	HourlyRate        *float64           `json:"hourly_rate,omitempty"`
	EstimatedHours    *float64           `json:"estimated_hours,omitempty"`
	DeliveryDays      int                `json:"delivery_time_days"`
	Status            string             `json:"status"`
	ProposalText      string             `json:"proposal_text"`
	AttachmentsCount  int                `json:"attachments_count"`
	MilestonesCount   int                `json:"milestones_count"`
	ClientFeedback    *string            `json:"client_feedback,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	AcceptedAt        *time.Time         `json:"accepted_at,omitempty"`
}

// DisplayTotal возвращает сумму ставки для отображения.
// Для почасовых ставок без явной суммы действует инвариант
// total = hourly_rate × estimated_hours.
func (b *Bid) DisplayTotal() float64 {
	if b.TotalAmount != nil {
		return *b.TotalAmount
	}
	if b.BidType == BidTypeHourly && b.HourlyRate != nil && b.EstimatedHours != nil {
		return valueobject.HourlyTotal(*b.HourlyRate, *b.EstimatedHours)
	}
	return 0
}

// IsTerminal сообщает, что ставка находится в конечном статусе.
func (b *Bid) IsTerminal() bool {
	return valueobject.BidStatus(b.Status).IsTerminal()
}
