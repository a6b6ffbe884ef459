package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizanep/kamcom-bids/internal/models"
	"github.com/rizanep/kamcom-bids/internal/pkg/apperror"
)

func TestBulkWithdraw_RateGuard(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"processed": 2, "failed": 0}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("t"), Options{BulkLimit: 1, BulkLimitPeriod: time.Hour})
	ids := []models.ID{"1", "2"}

	result, err := client.BulkWithdraw(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)

	// Вторая массовая операция в том же окне отсекается до сети.
	_, err = client.BulkWithdraw(context.Background(), ids)
	assert.True(t, apperror.IsRateLimited(err))
	assert.Equal(t, 1, calls)
}

func TestExportBids_WritesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte("id,status\n1,pending\n"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticToken("t"), Options{})
	var buf bytes.Buffer
	require.NoError(t, client.ExportBids(context.Background(), "csv", &buf))
	assert.Contains(t, buf.String(), "1,pending")
}
