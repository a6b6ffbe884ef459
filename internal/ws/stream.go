package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/rizanep/kamcom-bids/internal/goroutine"
	"github.com/rizanep/kamcom-bids/internal/logger"
	"github.com/rizanep/kamcom-bids/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// TokenSource отдаёт bearer-токен для подключения.
type TokenSource interface {
	Token() (string, error)
}

// Stream — клиент потока уведомлений сервиса ставок.
// Читает уведомления в канал и переподключается с нарастающей паузой.
type Stream struct {
	url          string
	tokens       TokenSource
	log          *logrus.Entry
	maxReconnect time.Duration
}

// NewStream создаёт клиент потока уведомлений.
func NewStream(url string, tokens TokenSource, maxReconnect time.Duration) *Stream {
	if maxReconnect <= 0 {
		maxReconnect = 30 * time.Second
	}
	return &Stream{
		url:          url,
		tokens:       tokens,
		log:          logger.WithComponent("ws"),
		maxReconnect: maxReconnect,
	}
}

// Watch подключается к потоку и отдаёт уведомления в канал до отмены
// контекста. Обрывы соединения переживаются переподключением; канал
// закрывается только по ctx.Done().
func (s *Stream) Watch(ctx context.Context) (<-chan models.Notification, error) {
	token, err := s.tokens.Token()
	if err != nil {
		return nil, err
	}

	out := make(chan models.Notification, 16)
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		defer close(out)

		backoff := time.Second
		for {
			if err := s.runOnce(ctx, token, out); err != nil {
				s.log.Warnf("поток уведомлений оборвался: %v", err)
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}

			backoff *= 2
			if backoff > s.maxReconnect {
				backoff = s.maxReconnect
			}
		}
	})

	return out, nil
}

// runOnce держит одно соединение до обрыва.
func (s *Stream) runOnce(ctx context.Context, token string, out chan<- models.Notification) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, header)
	if err != nil {
		return err
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Пингуем сами: сервер отвечает pong и продлевает read deadline.
	pingCtx, cancelPing := context.WithCancel(ctx)
	defer cancelPing()
	goroutine.SafeGoWithContext(pingCtx, func(ctx context.Context) {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	})

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return err
			}
			return nil
		}

		var notification models.Notification
		if err := json.Unmarshal(raw, &notification); err != nil {
			s.log.Debugf("пропускаем нераспознанное сообщение: %v", err)
			continue
		}

		select {
		case out <- notification:
		case <-ctx.Done():
			return nil
		}
	}
}
