package views

import (
	"sort"
	"strings"
	"sync"

	"github.com/rizanep/kamcom-bids/internal/domain/valueobject"
	"github.com/rizanep/kamcom-bids/internal/models"
)

// Role определяет, чей это список: исполнителя ("мои ставки")
// или заказчика ("управление предложениями").
type Role string

const (
	RoleFreelancer Role = "freelancer"
	RoleClient     Role = "client"
)

// Производные фильтры статуса оплаты. Сервер их не отдаёт:
// признак выводится из наличия платежа в статусе completed.
const (
	FilterPaymentPending   = "payment_pending"
	FilterPaymentCompleted = "payment_completed"
)

// Действия над строкой списка.
const (
	ActionEdit     = "edit"
	ActionWithdraw = "withdraw"
	ActionAccept   = "accept"
	ActionReject   = "reject"
)

// Controller — состояние одного списка ставок: поиск, фильтры, сортировка,
// курсорная пагинация и карта действий в полёте. Фильтрация никогда
// не мутирует исходную коллекцию.
type Controller struct {
	mu sync.Mutex

	role         Role
	search       string
	statusFilter string
	sortKey      string
	sortDesc     bool

	bids       []models.Bid
	payments   map[models.ID]*models.Payment
	nextCursor string
	generation uint64

	inflight map[models.ID]string
}

// NewController создаёт контроллер списка для роли.
func NewController(role Role) *Controller {
	return &Controller{
		role:         role,
		statusFilter: "all",
		sortKey:      "created_at",
		sortDesc:     true,
		payments:     make(map[models.ID]*models.Payment),
		inflight:     make(map[models.ID]string),
	}
}

// SetSearch задаёт поисковую строку.
func (c *Controller) SetSearch(q string) {
	c.mu.Lock()
	c.search = strings.TrimSpace(q)
	c.mu.Unlock()
}

// SetStatusFilter задаёт фильтр статуса: all, конкретный статус
// или производный payment_pending / payment_completed.
func (c *Controller) SetStatusFilter(status string) {
	c.mu.Lock()
	c.statusFilter = status
	c.mu.Unlock()
}

// SetSort задаёт ключ и направление сортировки.
func (c *Controller) SetSort(key string, desc bool) {
	c.mu.Lock()
	c.sortKey = key
	c.sortDesc = desc
	c.mu.Unlock()
}

// OrderingParam переводит сортировку в серверный параметр ordering:
// по убыванию — с ведущим минусом ("-created_at").
func (c *Controller) OrderingParam() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sortDesc {
		return "-" + c.sortKey
	}
	return c.sortKey
}

// NextGeneration помечает новый цикл загрузки. Ответы с устаревшим
// поколением (быстрая смена фильтров, обгон страниц) отбрасываются.
func (c *Controller) NextGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	return c.generation
}

// SetPage замещает список результатами свежей загрузки.
func (c *Controller) SetPage(gen uint64, bids []models.Bid, nextCursor string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false
	}
	c.bids = append([]models.Bid(nil), bids...)
	c.nextCursor = nextCursor
	return true
}

// AppendPage дописывает страницу ("load more") — добавляет, не замещает.
func (c *Controller) AppendPage(gen uint64, bids []models.Bid, nextCursor string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false
	}
	c.bids = append(c.bids, bids...)
	c.nextCursor = nextCursor
	return true
}

// NextCursor возвращает курсор продолжения; пустой — страниц больше нет.
func (c *Controller) NextCursor() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextCursor
}

// SetPayments обновляет известные платежи для производного фильтра.
func (c *Controller) SetPayments(payments map[models.ID]*models.Payment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payments = make(map[models.ID]*models.Payment, len(payments))
	for k, v := range payments {
		c.payments[k] = v
	}
}

// Visible возвращает отфильтрованную копию списка.
func (c *Controller) Visible() []models.Bid {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Bid, 0, len(c.bids))
	for i := range c.bids {
		if c.matchesSearch(&c.bids[i]) && c.matchesStatus(&c.bids[i]) {
			out = append(out, c.bids[i])
		}
	}
	return out
}

// SortVisible сортирует уже отфильтрованный срез по локальному ключу.
// Основная сортировка серверная (OrderingParam); локальная нужна после
// дописывания страниц с другим порядком.
func (c *Controller) SortVisible(bids []models.Bid) {
	c.mu.Lock()
	key, desc := c.sortKey, c.sortDesc
	c.mu.Unlock()

	sort.SliceStable(bids, func(i, j int) bool {
		var less bool
		switch key {
		case "amount":
			less = bids[i].DisplayTotal() < bids[j].DisplayTotal()
		case "delivery_time_days":
			less = bids[i].DeliveryDays < bids[j].DeliveryDays
		default:
			less = bids[i].CreatedAt.Before(bids[j].CreatedAt)
		}
		if desc {
			return !less
		}
		return less
	})
}

func (c *Controller) matchesSearch(b *models.Bid) bool {
	if c.search == "" {
		return true
	}
	needle := strings.ToLower(c.search)

	if strings.Contains(strings.ToLower(b.JobTitle), needle) {
		return true
	}

	counterparty := b.ClientName
	if c.role == RoleClient {
		counterparty = b.FreelancerName
		if counterparty == "" && b.FreelancerProfile != nil {
			counterparty = b.FreelancerProfile.Name
		}
	}
	return strings.Contains(strings.ToLower(counterparty), needle)
}

func (c *Controller) matchesStatus(b *models.Bid) bool {
	switch c.statusFilter {
	case "", "all":
		return true
	case FilterPaymentCompleted:
		return c.payments[b.ID].IsCompleted()
	case FilterPaymentPending:
		return !c.payments[b.ID].IsCompleted()
	default:
		return b.Status == c.statusFilter
	}
}

// BeginAction помечает действие над ставкой как выполняющееся.
// Повторная отправка того же действия по той же ставке блокируется;
// это не замок между разными действиями.
func (c *Controller) BeginAction(id models.ID, action string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if current, busy := c.inflight[id]; busy && current == action {
		return false
	}
	c.inflight[id] = action
	return true
}

// EndAction снимает отметку о действии в полёте.
func (c *Controller) EndAction(id models.ID) {
	c.mu.Lock()
	delete(c.inflight, id)
	c.mu.Unlock()
}

// ActionInFlight возвращает текущее действие по ставке.
func (c *Controller) ActionInFlight(id models.ID) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	action, ok := c.inflight[id]
	return action, ok
}

// AllowedActions возвращает действия, доступные по ставке для роли.
// Конечные статусы не допускают ни редактирования, ни отзыва.
func (c *Controller) AllowedActions(b *models.Bid) []string {
	status := valueobject.BidStatus(b.Status)
	if status.IsTerminal() || !status.IsValid() {
		return nil
	}

	if c.role == RoleClient {
		return []string{ActionAccept, ActionReject}
	}
	actions := []string{}
	if status.CanEdit() {
		actions = append(actions, ActionEdit)
	}
	if status.CanWithdraw() {
		actions = append(actions, ActionWithdraw)
	}
	return actions
}
