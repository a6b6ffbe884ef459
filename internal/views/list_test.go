package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizanep/kamcom-bids/internal/models"
)

func bidWith(id models.ID, status, jobTitle, clientName string) models.Bid {
	amount := 100.0
	return models.Bid{
		ID:          id,
		JobTitle:    jobTitle,
		ClientName:  clientName,
		BidType:     models.BidTypeFixed,
		TotalAmount: &amount,
		Status:      status,
	}
}

func TestController_SearchDoesNotMutateCollection(t *testing.T) {
	c := NewController(RoleFreelancer)
	gen := c.NextGeneration()
	c.SetPage(gen, []models.Bid{
		bidWith("1", models.BidStatusPending, "Дизайн логотипа", "Иван"),
		bidWith("2", models.BidStatusPending, "Вёрстка сайта", "Пётр"),
	}, "")

	c.SetSearch("ничего-не-найдётся")
	assert.Empty(t, c.Visible())

	c.SetSearch("")
	assert.Len(t, c.Visible(), 2, "исходная коллекция не изменилась")
}

func TestController_SearchCaseInsensitive(t *testing.T) {
	c := NewController(RoleFreelancer)
	gen := c.NextGeneration()
	c.SetPage(gen, []models.Bid{
		bidWith("1", models.BidStatusPending, "Дизайн Логотипа", "Иван"),
		bidWith("2", models.BidStatusPending, "Вёрстка сайта", "Пётр"),
	}, "")

	c.SetSearch("логотип")
	visible := c.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, models.ID("1"), visible[0].ID)

	// Для исполнителя контрагент — заказчик.
	c.SetSearch("пётр")
	visible = c.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, models.ID("2"), visible[0].ID)
}

func TestController_ClientSearchesFreelancerName(t *testing.T) {
	c := NewController(RoleClient)
	bid := bidWith("1", models.BidStatusPending, "Дизайн", "")
	bid.FreelancerProfile = &models.FreelancerProfile{Name: "Анна Смирнова"}
	gen := c.NextGeneration()
	c.SetPage(gen, []models.Bid{bid}, "")

	c.SetSearch("смирнова")
	assert.Len(t, c.Visible(), 1)
}

func TestController_PaymentFilterPartition(t *testing.T) {
	c := NewController(RoleFreelancer)
	gen := c.NextGeneration()
	all := []models.Bid{
		bidWith("1", models.BidStatusAccepted, "A", ""),
		bidWith("2", models.BidStatusAccepted, "B", ""),
		bidWith("3", models.BidStatusAccepted, "C", ""),
	}
	c.SetPage(gen, all, "")
	c.SetPayments(map[models.ID]*models.Payment{
		"1": {BidID: "1", Status: models.PaymentStatusCompleted},
		"2": {BidID: "2", Status: models.PaymentStatusPending},
	})

	c.SetStatusFilter(FilterPaymentCompleted)
	completed := c.Visible()
	require.Len(t, completed, 1)
	assert.Equal(t, models.ID("1"), completed[0].ID)

	// payment_pending — точное дополнение.
	c.SetStatusFilter(FilterPaymentPending)
	pending := c.Visible()
	require.Len(t, pending, 2)
	assert.Equal(t, len(all), len(completed)+len(pending))
}

func TestController_TerminalStatusesExposeNoActions(t *testing.T) {
	c := NewController(RoleFreelancer)
	for _, status := range []string{models.BidStatusAccepted, models.BidStatusRejected, models.BidStatusWithdrawn, models.BidStatusExpired} {
		bid := bidWith("1", status, "X", "")
		assert.Empty(t, c.AllowedActions(&bid), "статус %s не допускает действий", status)
	}

	pending := bidWith("2", models.BidStatusPending, "X", "")
	assert.ElementsMatch(t, []string{ActionEdit, ActionWithdraw}, c.AllowedActions(&pending))

	client := NewController(RoleClient)
	assert.ElementsMatch(t, []string{ActionAccept, ActionReject}, client.AllowedActions(&pending))
}

func TestController_StaleGenerationDiscarded(t *testing.T) {
	c := NewController(RoleFreelancer)

	oldGen := c.NextGeneration()
	newGen := c.NextGeneration()

	require.True(t, c.SetPage(newGen, []models.Bid{bidWith("fresh", models.BidStatusPending, "X", "")}, ""))

	// Ответ устаревшего поколения (обогнавший запрос) не применяется.
	assert.False(t, c.SetPage(oldGen, []models.Bid{bidWith("stale", models.BidStatusPending, "Y", "")}, ""))
	assert.False(t, c.AppendPage(oldGen, []models.Bid{bidWith("stale2", models.BidStatusPending, "Z", "")}, ""))

	visible := c.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, models.ID("fresh"), visible[0].ID)
}

func TestController_LoadMoreAppends(t *testing.T) {
	c := NewController(RoleFreelancer)
	gen := c.NextGeneration()
	c.SetPage(gen, []models.Bid{bidWith("1", models.BidStatusPending, "A", "")}, "cursor-2")

	require.Equal(t, "cursor-2", c.NextCursor())
	require.True(t, c.AppendPage(gen, []models.Bid{bidWith("2", models.BidStatusPending, "B", "")}, ""))

	assert.Len(t, c.Visible(), 2)
	assert.Empty(t, c.NextCursor())
}

func TestController_InflightGuard(t *testing.T) {
	c := NewController(RoleClient)

	require.True(t, c.BeginAction("1", ActionAccept))
	assert.False(t, c.BeginAction("1", ActionAccept), "повторная отправка того же действия блокируется")

	action, busy := c.ActionInFlight("1")
	assert.True(t, busy)
	assert.Equal(t, ActionAccept, action)

	c.EndAction("1")
	assert.True(t, c.BeginAction("1", ActionAccept))
}

func TestController_OrderingParam(t *testing.T) {
	c := NewController(RoleFreelancer)
	c.SetSort("created_at", true)
	assert.Equal(t, "-created_at", c.OrderingParam())

	c.SetSort("amount", false)
	assert.Equal(t, "amount", c.OrderingParam())
}

func TestController_SortVisibleByAmount(t *testing.T) {
	c := NewController(RoleFreelancer)
	a, b, d := 300.0, 100.0, 200.0
	bids := []models.Bid{
		{ID: "1", BidType: models.BidTypeFixed, TotalAmount: &a, CreatedAt: time.Now()},
		{ID: "2", BidType: models.BidTypeFixed, TotalAmount: &b, CreatedAt: time.Now()},
		{ID: "3", BidType: models.BidTypeFixed, TotalAmount: &d, CreatedAt: time.Now()},
	}

	c.SetSort("amount", false)
	c.SortVisible(bids)

	assert.Equal(t, models.ID("2"), bids[0].ID)
	assert.Equal(t, models.ID("1"), bids[2].ID)
}
