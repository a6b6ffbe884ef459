package store

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/rizanep/kamcom-bids/internal/dto"
	"github.com/rizanep/kamcom-bids/internal/logger"
	"github.com/rizanep/kamcom-bids/internal/models"
)

// BidAPI — операции сервиса ставок, нужные стору.
type BidAPI interface {
	ListMyBids(ctx context.Context, params dto.ListBidsParams) (*dto.BidPage, error)
	CreateBid(ctx context.Context, req dto.CreateBidRequest) (*models.Bid, error)
	UpdateBid(ctx context.Context, id models.ID, req dto.UpdateBidRequest) (*models.Bid, error)
	WithdrawBid(ctx context.Context, id models.ID) (*models.Bid, error)
	UploadAttachment(ctx context.Context, bidID models.ID, filename string, r io.Reader) (*models.Attachment, error)
	DeleteAttachment(ctx context.Context, bidID, attachmentID models.ID) error
	FreelancerDashboard(ctx context.Context) (*models.DashboardSummary, error)
	BidPayment(ctx context.Context, bidID models.ID) (*models.Payment, error)
}

// BidStore держит ставки текущего пользователя и агрегаты дашборда.
// Единственный разделяемый мутабельный ресурс клиента; все мутации
// проходят под мьютексом. Изменяющие операции при ошибке оставляют
// прежнее состояние нетронутым, кроме поля lastErr, и возвращают ошибку
// вызывающему — показывать её пользователю обязан вызывающий код.
type BidStore struct {
	mu  sync.Mutex
	api BidAPI
	log *logrus.Entry

	bids         []models.Bid
	summary      *models.DashboardSummary
	summaryStale bool
	payments     map[models.ID]*models.Payment
	loading      bool
	lastErr      string
}

// Divergence — расхождение клиента и сервера: платёж проведён,
// а ставка всё ещё pending. Всплывает при сверке, решение за UI.
type Divergence struct {
	Bid     models.Bid
	Payment models.Payment
}

// NewBidStore создаёт стор поверх клиента API.
func NewBidStore(api BidAPI) *BidStore {
	return &BidStore{
		api:      api,
		log:      logger.WithComponent("store"),
		payments: make(map[models.ID]*models.Payment),
	}
}

// Bids возвращает копию текущей коллекции.
func (s *BidStore) Bids() []models.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Bid, len(s.bids))
	copy(out, s.bids)
	return out
}

// Summary возвращает агрегаты дашборда и флаг локальных правок.
func (s *BidStore) Summary() (*models.DashboardSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary == nil {
		return nil, false
	}
	copied := *s.summary
	return &copied, s.summaryStale
}

// Loading сообщает, идёт ли загрузка списка.
func (s *BidStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError возвращает сообщение последней ошибки.
func (s *BidStore) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Load замещает коллекцию результатами сервера.
func (s *BidStore) Load(ctx context.Context, params dto.ListBidsParams) error {
	s.setLoading(true)
	defer s.setLoading(false)

	page, err := s.api.ListMyBids(ctx, params)
	if err != nil {
		s.recordError(err)
		return err
	}

	s.mu.Lock()
	s.bids = page.Results
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

// LoadSummary загружает дашборд целиком и сбрасывает флаг устаревания:
// серверные агрегаты замещают локальные оптимистичные правки.
func (s *BidStore) LoadSummary(ctx context.Context) error {
	summary, err := s.api.FreelancerDashboard(ctx)
	if err != nil {
		s.recordError(err)
		return err
	}

	s.mu.Lock()
	s.summary = summary
	s.summaryStale = false
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

// Create создаёт ставку и оптимистично обновляет локальное состояние:
// новая ставка встаёт в начало списка, счётчики дашборда (если он уже
// загружен) растут на единицу, потенциальный заработок — на сумму ставки.
func (s *BidStore) Create(ctx context.Context, req dto.CreateBidRequest) (*models.Bid, error) {
	bid, err := s.api.CreateBid(ctx, req)
	if err != nil {
		s.recordError(err)
		return nil, err
	}

	s.mu.Lock()
	s.bids = append([]models.Bid{*bid}, s.bids...)
	if s.summary != nil {
		s.summary.TotalBids++
		s.summary.PendingBids++
		s.summary.TotalPotentialEarnings += bid.DisplayTotal()
		s.summaryStale = true
	}
	s.lastErr = ""
	s.mu.Unlock()
	return bid, nil
}

// Update вливает частичные поля в ставку по идентификатору.
// Отсутствующий идентификатор — no-op по коллекции.
func (s *BidStore) Update(ctx context.Context, id models.ID, req dto.UpdateBidRequest) (*models.Bid, error) {
	bid, err := s.api.UpdateBid(ctx, id, req)
	if err != nil {
		s.recordError(err)
		return nil, err
	}

	s.mu.Lock()
	for i := range s.bids {
		if s.bids[i].ID == id {
			s.bids[i] = *bid
			break
		}
	}
	s.lastErr = ""
	s.mu.Unlock()
	return bid, nil
}

// Withdraw отзывает ставку: локально статус становится withdrawn,
// pending_bids уменьшается, но не ниже нуля.
func (s *BidStore) Withdraw(ctx context.Context, id models.ID) error {
	if _, err := s.api.WithdrawBid(ctx, id); err != nil {
		s.recordError(err)
		return err
	}

	s.mu.Lock()
	for i := range s.bids {
		if s.bids[i].ID == id {
			s.bids[i].Status = models.BidStatusWithdrawn
			break
		}
	}
	if s.summary != nil && s.summary.PendingBids > 0 {
		s.summary.PendingBids--
		s.summaryStale = true
	}
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

// UploadAttachment загружает файл и увеличивает счётчик вложений ставки.
func (s *BidStore) UploadAttachment(ctx context.Context, bidID models.ID, filename string, r io.Reader) (*models.Attachment, error) {
	attachment, err := s.api.UploadAttachment(ctx, bidID, filename, r)
	if err != nil {
		s.recordError(err)
		return nil, err
	}

	s.mu.Lock()
	for i := range s.bids {
		if s.bids[i].ID == bidID {
			s.bids[i].AttachmentsCount++
			break
		}
	}
	s.lastErr = ""
	s.mu.Unlock()
	return attachment, nil
}

// DeleteAttachment удаляет вложение; счётчик не опускается ниже нуля.
func (s *BidStore) DeleteAttachment(ctx context.Context, bidID, attachmentID models.ID) error {
	if err := s.api.DeleteAttachment(ctx, bidID, attachmentID); err != nil {
		s.recordError(err)
		return err
	}

	s.mu.Lock()
	for i := range s.bids {
		if s.bids[i].ID == bidID {
			if s.bids[i].AttachmentsCount > 0 {
				s.bids[i].AttachmentsCount--
			}
			break
		}
	}
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

// ReconcilePayments подтягивает платежи по текущим ставкам и возвращает
// расхождения: платёж completed при ставке всё ещё pending.
// Ошибка по отдельной ставке не прерывает сверку остальных.
func (s *BidStore) ReconcilePayments(ctx context.Context) ([]Divergence, error) {
	bids := s.Bids()

	var divergent []Divergence
	for i := range bids {
		payment, err := s.api.BidPayment(ctx, bids[i].ID)
		if err != nil {
			s.log.WithField("bid_id", bids[i].ID).Warnf("не удалось проверить платёж: %v", err)
			continue
		}
		if payment == nil {
			continue
		}

		s.mu.Lock()
		s.payments[bids[i].ID] = payment
		s.mu.Unlock()

		if payment.IsCompleted() && bids[i].Status == models.BidStatusPending {
			divergent = append(divergent, Divergence{Bid: bids[i], Payment: *payment})
		}
	}
	return divergent, nil
}

// Payments возвращает снимок известных платежей по ставкам.
func (s *BidStore) Payments() map[models.ID]*models.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[models.ID]*models.Payment, len(s.payments))
	for k, v := range s.payments {
		out[k] = v
	}
	return out
}

// Clear сбрасывает всё состояние — вызывается при logout.
func (s *BidStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bids = nil
	s.summary = nil
	s.summaryStale = false
	s.payments = make(map[models.ID]*models.Payment)
	s.loading = false
	s.lastErr = ""
}

func (s *BidStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *BidStore) recordError(err error) {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
}
