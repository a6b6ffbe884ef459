package api

import (
	"context"
	"net/http"

	"github.com/rizanep/kamcom-bids/internal/dto"
	"github.com/rizanep/kamcom-bids/internal/models"
)

// CreateBid создаёт ставку на заказ.
func (c *Client) CreateBid(ctx context.Context, req dto.CreateBidRequest) (*models.Bid, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var bid models.Bid
	if err := c.do(ctx, http.MethodPost, "bids", nil, req, &bid); err != nil {
		return nil, err
	}
	return &bid, nil
}

// ListMyBids возвращает страницу ставок текущего пользователя.
func (c *Client) ListMyBids(ctx context.Context, params dto.ListBidsParams) (*dto.BidPage, error) {
	var page dto.BidPage
	if err := c.do(ctx, http.MethodGet, "bids/my", params.ToQuery(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetBid возвращает одну ставку.
func (c *Client) GetBid(ctx context.Context, id models.ID) (*models.Bid, error) {
	var bid models.Bid
	if err := c.do(ctx, http.MethodGet, "bids/"+id.String(), nil, nil, &bid); err != nil {
		return nil, err
	}
	return &bid, nil
}

// UpdateBid частично обновляет ставку.
func (c *Client) UpdateBid(ctx context.Context, id models.ID, req dto.UpdateBidRequest) (*models.Bid, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var bid models.Bid
	if err := c.do(ctx, http.MethodPatch, "bids/"+id.String(), nil, req, &bid); err != nil {
		return nil, err
	}
	return &bid, nil
}

// WithdrawBid отзывает ставку.
func (c *Client) WithdrawBid(ctx context.Context, id models.ID) (*models.Bid, error) {
	var bid models.Bid
	if err := c.do(ctx, http.MethodPost, "bids/"+id.String()+"/withdraw", nil, nil, &bid); err != nil {
		return nil, err
	}
	return &bid, nil
}

// UpdateBidStatus переводит ставку в новый статус (accept/reject).
func (c *Client) UpdateBidStatus(ctx context.Context, id models.ID, req dto.UpdateBidStatusRequest) (*models.Bid, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var bid models.Bid
	if err := c.do(ctx, http.MethodPost, "bids/"+id.String()+"/status", nil, req, &bid); err != nil {
		return nil, err
	}
	return &bid, nil
}

// ListJobBids возвращает страницу ставок на заказ (для заказчика).
func (c *Client) ListJobBids(ctx context.Context, jobID models.ID, params dto.ListBidsParams) (*dto.BidPage, error) {
	var page dto.BidPage
	if err := c.do(ctx, http.MethodGet, "jobs/"+jobID.String()+"/bids", params.ToQuery(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// JobBidSummary возвращает сводку по ставкам на заказ.
func (c *Client) JobBidSummary(ctx context.Context, jobID models.ID) (*dto.JobBidSummary, error) {
	var summary dto.JobBidSummary
	if err := c.do(ctx, http.MethodGet, "jobs/"+jobID.String()+"/bids/summary", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ListBidMilestones возвращает этапы работ по ставке.
func (c *Client) ListBidMilestones(ctx context.Context, bidID models.ID) ([]models.Milestone, error) {
	var milestones []models.Milestone
	if err := c.do(ctx, http.MethodGet, "bids/"+bidID.String()+"/milestones", nil, nil, &milestones); err != nil {
		return nil, err
	}
	return milestones, nil
}
