package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/rizanep/kamcom-bids/internal/logger"
	"github.com/rizanep/kamcom-bids/internal/pkg/apperror"
)

// TokenSource отдаёт действующий bearer-токен.
// Отсутствие токена — ошибка предусловия до любого сетевого вызова.
type TokenSource interface {
	Token() (string, error)
}

// Client — клиент сервиса ставок.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	log            *logrus.Entry
	bulkLimiter    *limiter.Limiter
	maxUploadBytes int64
}

// Options — настройки клиента.
type Options struct {
	Timeout         time.Duration
	MaxUploadMB     int64
	BulkLimit       int64
	BulkLimitPeriod time.Duration
}

// NewClient создаёт клиент сервиса ставок.
func NewClient(baseURL string, tokens TokenSource, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxUploadMB <= 0 {
		opts.MaxUploadMB = 10
	}
	if opts.BulkLimit <= 0 {
		opts.BulkLimit = 5
	}
	if opts.BulkLimitPeriod <= 0 {
		opts.BulkLimitPeriod = time.Minute
	}

	rate := limiter.Rate{Period: opts.BulkLimitPeriod, Limit: opts.BulkLimit}

	return &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		httpClient:     &http.Client{Timeout: opts.Timeout},
		tokens:         tokens,
		log:            logger.WithComponent("api"),
		bulkLimiter:    limiter.New(memory.NewStore(), rate),
		maxUploadBytes: opts.MaxUploadMB * 1024 * 1024,
	}
}

// buildURL собирает URL вида <base>/<resource-path>/ с query-параметрами
// из плоской карты ключ-значение.
func (c *Client) buildURL(path string, query map[string]string) string {
	u := c.baseURL + "/" + strings.Trim(path, "/") + "/"
	if len(query) == 0 {
		return u
	}
	values := url.Values{}
	for k, v := range query {
		if v != "" {
			values.Set(k, v)
		}
	}
	if encoded := values.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// do выполняет JSON-запрос: токен, заголовки, нормализация ошибок,
// декодирование тела в out (если out != nil).
func (c *Client) do(ctx context.Context, method, path string, query map[string]string, payload, out any) error {
	token, err := c.tokens.Token()
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeParse, "не удалось сериализовать запрос")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, query), body)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeNetwork, "не удалось сформировать запрос")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeNetwork, "сетевая ошибка при обращении к сервису ставок")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		appErr := parseAPIError(resp)
		c.log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Warnf("запрос отклонён: %s", appErr.Message)
		return appErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeParse, "не удалось разобрать ответ сервера")
	}
	return nil
}

// download скачивает тело ответа в w (экспорт, вложения).
func (c *Client) download(ctx context.Context, path string, query map[string]string, w io.Writer) error {
	token, err := c.tokens.Token()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(path, query), nil)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeNetwork, "не удалось сформировать запрос")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeNetwork, "сетевая ошибка при скачивании")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return parseAPIError(resp)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeNetwork, "ошибка записи скачиваемых данных")
	}
	return nil
}

// allowBulk пропускает массовую операцию через исходящий ограничитель,
// чтобы batch-команды не душили API.
func (c *Client) allowBulk(ctx context.Context, key string) error {
	lctx, err := c.bulkLimiter.Get(ctx, "bulk:"+key)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeServer, "ограничитель запросов недоступен")
	}
	if lctx.Reached {
		return apperror.New(apperror.ErrCodeRateLimited, "слишком много массовых операций, попробуйте позже")
	}
	return nil
}

// parseAPIError нормализует тело ошибки в типизированную ошибку.
// Сервер кладёт сообщение в detail, error или message.
func parseAPIError(resp *http.Response) *apperror.AppError {
	var body struct {
		Detail  string `json:"detail"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	detail := body.Detail
	if detail == "" {
		detail = body.Error
	}
	if detail == "" {
		detail = body.Message
	}
	if detail == "" {
		detail = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}

	return apperror.FromStatus(resp.StatusCode, detail)
}
