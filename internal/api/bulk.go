package api

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/rizanep/kamcom-bids/internal/dto"
	"github.com/rizanep/kamcom-bids/internal/models"
)

// BulkWithdraw отзывает несколько ставок одним запросом.
func (c *Client) BulkWithdraw(ctx context.Context, ids []models.ID) (*dto.BulkResult, error) {
	if err := c.allowBulk(ctx, "withdraw"); err != nil {
		return nil, err
	}

	payload := map[string]any{"bid_ids": ids}
	var result dto.BulkResult
	if err := c.do(ctx, http.MethodPost, "bids/bulk/withdraw", nil, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ImportBids загружает файл с черновиками ставок (multipart).
func (c *Client) ImportBids(ctx context.Context, filename string, r io.Reader) (*dto.BulkResult, error) {
	if err := c.allowBulk(ctx, "import"); err != nil {
		return nil, err
	}

	extra := map[string]string{"import_key": uuid.NewString()}
	var result dto.BulkResult
	if err := c.doMultipart(ctx, "bids/bulk/import", "file", filename, r, extra, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExportBids скачивает выгрузку ставок в указанном формате (csv, xlsx).
func (c *Client) ExportBids(ctx context.Context, format string, w io.Writer) error {
	if err := c.allowBulk(ctx, "export"); err != nil {
		return err
	}
	return c.download(ctx, "bids/export", map[string]string{"format": format}, w)
}
