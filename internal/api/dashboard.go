package api

import (
	"context"
	"net/http"

	"github.com/rizanep/kamcom-bids/internal/models"
)

// FreelancerDashboard возвращает агрегаты по ставкам исполнителя.
func (c *Client) FreelancerDashboard(ctx context.Context) (*models.DashboardSummary, error) {
	var summary models.DashboardSummary
	if err := c.do(ctx, http.MethodGet, "dashboard/freelancer", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ClientDashboard возвращает агрегаты по предложениям для заказчика.
func (c *Client) ClientDashboard(ctx context.Context) (*models.DashboardSummary, error) {
	var summary models.DashboardSummary
	if err := c.do(ctx, http.MethodGet, "dashboard/client", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// BidAnalytics возвращает аналитику по ставкам за период.
func (c *Client) BidAnalytics(ctx context.Context, period string) (*models.BidAnalytics, error) {
	query := map[string]string{"period": period}
	var analytics models.BidAnalytics
	if err := c.do(ctx, http.MethodGet, "bids/analytics", query, nil, &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}
