package payment

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rizanep/kamcom-bids/internal/dto"
	"github.com/rizanep/kamcom-bids/internal/logger"
	"github.com/rizanep/kamcom-bids/internal/models"
	"github.com/rizanep/kamcom-bids/internal/pkg/apperror"
)

// API — платёжные операции сервиса ставок, нужные воркфлоу.
type API interface {
	CreatePaymentOrder(ctx context.Context, bidID models.ID) (*models.PaymentOrder, error)
	VerifyPayment(ctx context.Context, cb models.PaymentCallback) (*models.Payment, error)
	CapturePayment(ctx context.Context, bidID models.ID, card dto.CardDetails) (*models.Payment, error)
	UpdateBidStatus(ctx context.Context, id models.ID, req dto.UpdateBidStatusRequest) (*models.Bid, error)
}

// Refresher дёргается после успешного принятия, чтобы зависимые данные
// (дашборд, список заказа) перечитались. Его ошибка принятие не откатывает.
type Refresher func(ctx context.Context) error

// Workflow ведёт принятие ставки через оплату.
// Обе ветки — встроенная карточная форма и внешний виджет — сходятся
// в одном финале: подтверждённый платёж, затем перевод ставки в accepted.
// Сбой на любом шаге прерывает переход: ставка остаётся в прежнем статусе.
type Workflow struct {
	api          API
	log          *logrus.Entry
	callbackAddr string
	waitTimeout  time.Duration
	openURL      func(url string) error
	refresh      Refresher

	mu       sync.Mutex
	inflight map[models.ID]bool
}

// Options — настройки воркфлоу.
type Options struct {
	CallbackAddr string
	WaitTimeout  time.Duration
	OpenURL      func(url string) error
	Refresh      Refresher
}

// NewWorkflow создаёт воркфлоу принятия с оплатой.
func NewWorkflow(api API, opts Options) *Workflow {
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 10 * time.Minute
	}
	if opts.CallbackAddr == "" {
		opts.CallbackAddr = "127.0.0.1:8731"
	}
	return &Workflow{
		api:          api,
		log:          logger.WithComponent("payment"),
		callbackAddr: opts.CallbackAddr,
		waitTimeout:  opts.WaitTimeout,
		openURL:      opts.OpenURL,
		refresh:      opts.Refresh,
		inflight:     make(map[models.ID]bool),
	}
}

// AcceptWithCard принимает ставку через встроенную карточную форму:
// реквизиты уходят на платёжный эндпоинт сервиса ставок, и только
// подтверждённый платёж открывает переход в accepted.
func (w *Workflow) AcceptWithCard(ctx context.Context, bid *models.Bid, card dto.CardDetails) (*models.Payment, error) {
	if err := w.begin(bid); err != nil {
		return nil, err
	}
	defer w.end(bid.ID)

	payment, err := w.api.CapturePayment(ctx, bid.ID, card)
	if err != nil {
		return nil, err
	}
	if !payment.IsCompleted() {
		return nil, apperror.New(apperror.ErrCodeValidation, "платёж не подтверждён, ставка осталась без изменений")
	}

	return payment, w.finishAccept(ctx, bid, payment)
}

// AcceptWithWidget принимает ставку через внешний платёжный виджет:
// заказ на оплату → переход в виджет → локальный обработчик результата →
// серверная верификация → перевод в accepted.
func (w *Workflow) AcceptWithWidget(ctx context.Context, bid *models.Bid) (*models.Payment, error) {
	if err := w.begin(bid); err != nil {
		return nil, err
	}
	defer w.end(bid.ID)

	order, err := w.api.CreatePaymentOrder(ctx, bid.ID)
	if err != nil {
		return nil, err
	}

	listener, err := newCallbackListener(w.callbackAddr)
	if err != nil {
		return nil, err
	}
	defer listener.Shutdown()

	if w.openURL != nil {
		if err := w.openURL(order.WidgetURL); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, "не удалось открыть платёжный виджет")
		}
	} else {
		w.log.Infof("откройте платёжный виджет: %s", order.WidgetURL)
	}

	cb, err := listener.Wait(ctx, w.waitTimeout)
	if err != nil {
		return nil, err
	}
	if cb.OrderID != order.OrderID {
		return nil, apperror.New(apperror.ErrCodeValidation, "результат виджета не совпадает с заказом на оплату")
	}

	payment, err := w.api.VerifyPayment(ctx, cb)
	if err != nil {
		return nil, err
	}
	if !payment.IsCompleted() {
		return nil, apperror.New(apperror.ErrCodeValidation, "верификация платежа не подтвердила оплату")
	}

	return payment, w.finishAccept(ctx, bid, payment)
}

// finishAccept выполняет терминальный шаг: перевод статуса и обновление
// зависимых данных.
func (w *Workflow) finishAccept(ctx context.Context, bid *models.Bid, payment *models.Payment) error {
	updated, err := w.api.UpdateBidStatus(ctx, bid.ID, dto.UpdateBidStatusRequest{Status: models.BidStatusAccepted})
	if err != nil {
		// Платёж прошёл, а переход — нет: клиент и сервер разошлись
		// до следующей перезагрузки. Состояние "оплачено, но не принято"
		// локально не сохраняем, сверка всплывёт через ReconcilePayments.
		w.log.WithFields(logrus.Fields{
			"bid_id":  bid.ID,
			"receipt": payment.ReceiptNumber,
		}).Errorf("платёж проведён, но смена статуса не удалась: %v", err)
		return err
	}

	bid.Status = updated.Status
	bid.AcceptedAt = updated.AcceptedAt

	if w.refresh != nil {
		if err := w.refresh(ctx); err != nil {
			w.log.Warnf("не удалось обновить зависимые данные: %v", err)
		}
	}
	return nil
}

// begin регистрирует воркфлоу по ставке: не больше одного на ставку,
// и только pending-ставка может быть принята.
func (w *Workflow) begin(bid *models.Bid) error {
	if bid.Status != models.BidStatusPending {
		return apperror.New(apperror.ErrCodeValidation, "принять можно только ставку в статусе pending")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inflight[bid.ID] {
		return apperror.New(apperror.ErrCodeValidation, "по этой ставке уже идёт оплата")
	}
	w.inflight[bid.ID] = true
	return nil
}

func (w *Workflow) end(id models.ID) {
	w.mu.Lock()
	delete(w.inflight, id)
	w.mu.Unlock()
}
