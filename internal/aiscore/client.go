package aiscore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rizanep/kamcom-bids/internal/logger"
	"github.com/rizanep/kamcom-bids/internal/models"
	"github.com/rizanep/kamcom-bids/internal/pkg/apperror"
)

// JobContext — вход скорингового сервиса: один запрос на заказ.
type JobContext struct {
	JobID          models.ID `json:"job_id"`
	Description    string    `json:"description"`
	RequiredSkills []string  `json:"required_skills"`
}

// Client — клиент внешнего скорингового сервиса.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Entry
}

// NewClient создаёт клиент скорингового сервиса.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.WithComponent("aiscore"),
	}
}

// MatchScores запрашивает оценки соответствия исполнителей заказу.
func (c *Client) MatchScores(ctx context.Context, job JobContext) ([]models.AIMatchScore, error) {
	if c.baseURL == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "aiscore: baseURL не задан")
	}

	body, err := json.Marshal(job)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeParse, "не удалось сериализовать запрос скоринга")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/match-scores/", bytes.NewReader(body))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeNetwork, "не удалось сформировать запрос скоринга")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeNetwork, "скоринговый сервис недоступен")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, apperror.FromStatus(resp.StatusCode, fmt.Sprintf("aiscore: HTTP %d", resp.StatusCode))
	}

	var result struct {
		Matches []models.AIMatchScore `json:"matches"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeParse, "не удалось разобрать ответ скоринга")
	}
	return result.Matches, nil
}
