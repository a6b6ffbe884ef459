package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorCode string

const (
	ErrCodeAuthMissing  ErrorCode = "AUTH_MISSING"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeRateLimited  ErrorCode = "RATE_LIMITED"
	ErrCodeServer       ErrorCode = "SERVER_ERROR"
	ErrCodeNetwork      ErrorCode = "NETWORK_ERROR"
	ErrCodeParse        ErrorCode = "PARSE_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// FromStatus нормализует HTTP-ответ сервиса ставок в типизированную ошибку.
// 403 — нет прав, 404 — не найдено, 429 — лимит, 5xx — ошибка сервера,
// остальные 4xx несут сообщение сервера (detail/error/message) либо
// фолбэк "HTTP <status>".
func FromStatus(status int, detail string) *AppError {
	detail = strings.TrimSpace(detail)
	switch {
	case status == http.StatusUnauthorized:
		return &AppError{Code: ErrCodeUnauthorized, Message: "требуется авторизация", HTTPStatus: status}
	case status == http.StatusForbidden:
		return &AppError{Code: ErrCodeForbidden, Message: "недостаточно прав для этого действия", HTTPStatus: status}
	case status == http.StatusNotFound:
		return &AppError{Code: ErrCodeNotFound, Message: "ресурс не найден", HTTPStatus: status}
	case status == http.StatusTooManyRequests:
		return &AppError{Code: ErrCodeRateLimited, Message: "слишком много запросов, попробуйте позже", HTTPStatus: status}
	case status >= http.StatusInternalServerError:
		return &AppError{Code: ErrCodeServer, Message: "сервер временно недоступен, попробуйте позже", HTTPStatus: status}
	default:
		if detail == "" {
			detail = fmt.Sprintf("HTTP %d", status)
		}
		return &AppError{Code: ErrCodeBadRequest, Message: detail, HTTPStatus: status}
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAuthMissing, ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsAuthMissing(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeAuthMissing
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeForbidden
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

func IsRateLimited(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeRateLimited
}

var (
	ErrTokenMissing = New(ErrCodeAuthMissing, "токен авторизации не найден, войдите заново")
	ErrTokenExpired = New(ErrCodeAuthMissing, "срок действия токена истёк, войдите заново")
	ErrBidNotFound  = New(ErrCodeNotFound, "ставка не найдена")
	ErrForbidden    = New(ErrCodeForbidden, "недостаточно прав")
)
