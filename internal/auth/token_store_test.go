package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizanep/kamcom-bids/internal/pkg/apperror"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenStore_MissingTokenIsPreconditionFailure(t *testing.T) {
	s := NewTokenStore(filepath.Join(t.TempDir(), "token"))

	_, err := s.Token()
	assert.True(t, apperror.IsAuthMissing(err))
}

func TestTokenStore_SaveAndLoad(t *testing.T) {
	s := NewTokenStore(filepath.Join(t.TempDir(), "nested", "token"))
	token := signedToken(t, time.Now().Add(time.Hour))

	require.NoError(t, s.Save(token))

	got, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, token, got)
}

func TestTokenStore_ExpiredTokenRejected(t *testing.T) {
	s := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, s.Save(signedToken(t, time.Now().Add(-time.Minute))))

	_, err := s.Token()
	assert.True(t, apperror.IsAuthMissing(err), "протухший токен — то же предусловие, что и отсутствующий")
}

func TestTokenStore_OpaqueTokenPassesThrough(t *testing.T) {
	// Не-JWT токен отдаём как есть: срок проверяет сервер.
	s := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, s.Save("opaque-session-token"))

	got, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "opaque-session-token", got)
}

func TestTokenStore_Clear(t *testing.T) {
	s := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, s.Save(signedToken(t, time.Now().Add(time.Hour))))

	require.NoError(t, s.Clear())
	_, err := s.Token()
	assert.True(t, apperror.IsAuthMissing(err))

	// Повторный logout не ошибка.
	assert.NoError(t, s.Clear())
}

func TestTokenStore_EmptyTokenRejectedOnSave(t *testing.T) {
	s := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	err := s.Save("   ")
	assert.True(t, apperror.IsValidation(err))
}
