package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rizanep/kamcom-bids/internal/pkg/apperror"
)

// TokenStore хранит bearer-токен в файле — аналог localStorage браузера.
// Отсутствие токена — ошибка предусловия, которая поднимается до любого
// сетевого вызова.
type TokenStore struct {
	path string
	now  func() time.Time
}

// NewTokenStore создаёт хранилище токена по указанному пути.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path, now: time.Now}
}

// Token возвращает действующий токен.
// Отсутствующий или протухший токен — apperror с кодом AUTH_MISSING.
func (s *TokenStore) Token() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperror.ErrTokenMissing
		}
		return "", apperror.Wrap(err, apperror.ErrCodeAuthMissing, "не удалось прочитать токен")
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", apperror.ErrTokenMissing
	}

	if err := s.checkExpiry(token); err != nil {
		return "", err
	}

	return token, nil
}

// Save записывает токен на диск.
func (s *TokenStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperror.New(apperror.ErrCodeValidation, "пустой токен")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("auth: не удалось создать каталог токена: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("auth: не удалось сохранить токен: %w", err)
	}
	return nil
}

// Clear удаляет сохранённый токен (logout).
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("auth: не удалось удалить токен: %w", err)
	}
	return nil
}

// checkExpiry смотрит exp в клеймах без проверки подписи: секрета у клиента
// нет, подпись проверяет сервер. Токен без exp или не-JWT пропускаем как есть.
func (s *TokenStore) checkExpiry(token string) error {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return nil
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(s.now()) {
		return apperror.ErrTokenExpired
	}
	return nil
}
