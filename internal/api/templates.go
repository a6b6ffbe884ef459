package api

import (
	"context"
	"net/http"

	"github.com/rizanep/kamcom-bids/internal/dto"
	"github.com/rizanep/kamcom-bids/internal/models"
)

// ListTemplates возвращает шаблоны предложений пользователя.
func (c *Client) ListTemplates(ctx context.Context) ([]models.BidTemplate, error) {
	var templates []models.BidTemplate
	if err := c.do(ctx, http.MethodGet, "bids/templates", nil, nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// CreateTemplate сохраняет новый шаблон.
func (c *Client) CreateTemplate(ctx context.Context, req dto.TemplateRequest) (*models.BidTemplate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var tpl models.BidTemplate
	if err := c.do(ctx, http.MethodPost, "bids/templates", nil, req, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// UpdateTemplate обновляет шаблон.
func (c *Client) UpdateTemplate(ctx context.Context, id models.ID, req dto.TemplateRequest) (*models.BidTemplate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var tpl models.BidTemplate
	if err := c.do(ctx, http.MethodPut, "bids/templates/"+id.String(), nil, req, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// DeleteTemplate удаляет шаблон.
func (c *Client) DeleteTemplate(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodDelete, "bids/templates/"+id.String(), nil, nil, nil)
}

// ListNotifications возвращает уведомления по ставкам.
func (c *Client) ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error) {
	query := map[string]string{}
	if unreadOnly {
		query["unread"] = "true"
	}

	var notifications []models.Notification
	if err := c.do(ctx, http.MethodGet, "notifications", query, nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead помечает уведомление прочитанным.
func (c *Client) MarkNotificationRead(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodPost, "notifications/"+id.String()+"/read", nil, nil, nil)
}
