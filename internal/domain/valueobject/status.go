package valueobject

import "github.com/rizanep/kamcom-bids/internal/pkg/apperror"

type BidStatus string

const (
	BidStatusPending   BidStatus = "pending"
	BidStatusAccepted  BidStatus = "accepted"
	BidStatusRejected  BidStatus = "rejected"
	BidStatusWithdrawn BidStatus = "withdrawn"
	BidStatusExpired   BidStatus = "expired"
)

func (s BidStatus) IsValid() bool {
	switch s {
	case BidStatusPending, BidStatusAccepted, BidStatusRejected, BidStatusWithdrawn, BidStatusExpired:
		return true
	}
	return false
}

// IsTerminal сообщает, что из статуса нет переходов.
func (s BidStatus) IsTerminal() bool {
	return s.IsValid() && s != BidStatusPending
}

// CanTransitionTo проверяет допустимость перехода между статусами.
// Переходы авторитетно выполняет сервер; клиент лишь зеркалирует их
// и не предлагает действий, которые сервер заведомо отклонит.
func (s BidStatus) CanTransitionTo(newStatus BidStatus) bool {
	transitions := map[BidStatus][]BidStatus{
		BidStatusPending:   {BidStatusAccepted, BidStatusRejected, BidStatusWithdrawn, BidStatusExpired},
		BidStatusAccepted:  {},
		BidStatusRejected:  {},
		BidStatusWithdrawn: {},
		BidStatusExpired:   {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

// CanEdit: редактировать ставку может только владелец и только в pending.
func (s BidStatus) CanEdit() bool {
	return s == BidStatusPending
}

// CanWithdraw: отозвать можно только pending-ставку.
func (s BidStatus) CanWithdraw() bool {
	return s == BidStatusPending
}

func NewBidStatus(status string) (BidStatus, error) {
	s := BidStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус ставки")
	}
	return s, nil
}
