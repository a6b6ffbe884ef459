package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rizanep/kamcom-bids/internal/pkg/apperror"
)

type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(amount float64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "сумма не может быть отрицательной")
	}
	if currency == "" {
		currency = "USD"
	}
	return Money{Amount: decimal.NewFromFloat(amount), Currency: currency}, nil
}

func (m Money) Float64() float64 {
	f, _ := m.Amount.Float64()
	return f
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Amount.StringFixed(2))
}

// HourlyTotal считает сумму почасовой ставки: rate × hours.
// Умножение через decimal, чтобы не накапливать двоичную погрешность float64.
func HourlyTotal(rate, hours float64) float64 {
	total, _ := decimal.NewFromFloat(rate).Mul(decimal.NewFromFloat(hours)).Float64()
	return total
}
