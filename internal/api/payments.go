package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/rizanep/kamcom-bids/internal/dto"
	"github.com/rizanep/kamcom-bids/internal/models"
	"github.com/rizanep/kamcom-bids/internal/pkg/apperror"
)

// CreatePaymentOrder запрашивает у сервиса ставок дескриптор заказа
// для платёжного виджета. Ключ идемпотентности генерируется на клиенте,
// чтобы повторная попытка не создала второй заказ.
func (c *Client) CreatePaymentOrder(ctx context.Context, bidID models.ID) (*models.PaymentOrder, error) {
	payload := map[string]string{
		"bid_id":          bidID.String(),
		"idempotency_key": uuid.NewString(),
	}

	var order models.PaymentOrder
	if err := c.do(ctx, http.MethodPost, "payments/orders", nil, payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifyPayment пересылает подписанный результат виджета на серверную верификацию.
func (c *Client) VerifyPayment(ctx context.Context, cb models.PaymentCallback) (*models.Payment, error) {
	var payment models.Payment
	if err := c.do(ctx, http.MethodPost, "payments/verify", nil, cb, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// CapturePayment проводит оплату по реквизитам карты (встроенная форма).
func (c *Client) CapturePayment(ctx context.Context, bidID models.ID, card dto.CardDetails) (*models.Payment, error) {
	if err := card.Validate(); err != nil {
		return nil, err
	}

	payload := struct {
		BidID models.ID       `json:"bid_id"`
		Card  dto.CardDetails `json:"card"`
	}{BidID: bidID, Card: card}

	var payment models.Payment
	if err := c.do(ctx, http.MethodPost, "payments/capture", nil, payload, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// BidPayment ищет проведённый платёж по ставке.
// Отсутствие платежа — не ошибка: возвращается (nil, nil),
// из чего список выводит проекцию "оплачено/не оплачено".
func (c *Client) BidPayment(ctx context.Context, bidID models.ID) (*models.Payment, error) {
	var payment models.Payment
	err := c.do(ctx, http.MethodGet, "bids/"+bidID.String()+"/payment", nil, nil, &payment)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}
