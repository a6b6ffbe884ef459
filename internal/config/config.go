package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все параметры запуска клиента.
type Config struct {
	Env              string
	APIBaseURL       string
	AIBaseURL        string
	TokenPath        string
	CallbackAddr     string
	HTTPTimeout      time.Duration
	CallbackTimeout  time.Duration
	MaxUploadSizeMB  int64
	BulkLimit        int64
	BulkLimitPeriod  time.Duration
	WSReconnectLimit time.Duration
}

// Load читает переменные окружения и возвращает готовую конфигурацию.
func Load() (*Config, error) {
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: .env не найден, используем переменные окружения: %v", err)
	}

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		APIBaseURL:       getEnv("KAM_API_BASE_URL", "http://localhost:8000/api"),
		AIBaseURL:        getEnv("KAM_AI_BASE_URL", "http://localhost:9000/api"),
		TokenPath:        getEnv("KAM_TOKEN_PATH", defaultTokenPath()),
		CallbackAddr:     getEnv("KAM_CALLBACK_ADDR", "127.0.0.1:8731"),
		HTTPTimeout:      mustParseDuration(getEnv("HTTP_TIMEOUT", "60s")),
		CallbackTimeout:  mustParseDuration(getEnv("PAYMENT_CALLBACK_TIMEOUT", "10m")),
		MaxUploadSizeMB:  mustParseInt64(getEnv("MAX_UPLOAD_MB", "10")),
		BulkLimit:        mustParseInt64(getEnv("BULK_RATE_LIMIT", "5")),
		BulkLimitPeriod:  mustParseDuration(getEnv("BULK_RATE_PERIOD", "1m")),
		WSReconnectLimit: mustParseDuration(getEnv("WS_RECONNECT_MAX", "30s")),
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или дефолт.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// defaultTokenPath — аналог localStorage браузера: токен лежит в домашнем каталоге.
func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kamcom_token"
	}
	return home + "/.kamcom/token"
}

// mustParseDuration безопасно парсит строку в duration.
func mustParseDuration(v string) time.Duration {
	dur, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: не удалось распарсить длительность %q: %v", v, err)
	}
	return dur
}

// mustParseInt64 безопасно парсит строку в число.
func mustParseInt64(v string) int64 {
	num, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Fatalf("config: не удалось распарсить число %q: %v", v, err)
	}
	return num
}
