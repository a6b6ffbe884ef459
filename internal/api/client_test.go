package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizanep/kamcom-bids/internal/dto"
	"github.com/rizanep/kamcom-bids/internal/models"
	"github.com/rizanep/kamcom-bids/internal/pkg/apperror"
)

type staticToken string

func (s staticToken) Token() (string, error) { return string(s), nil }

type failingToken struct{}

func (failingToken) Token() (string, error) { return "", apperror.ErrTokenMissing }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, staticToken("test-token"), Options{}), srv
}

func TestClient_MissingToken_NoNetworkCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewClient(srv.URL, failingToken{}, Options{})
	_, err := client.GetBid(context.Background(), "1")

	assert.True(t, apperror.IsAuthMissing(err))
	assert.Equal(t, 0, calls, "при отсутствии токена сетевой вызов не выполняется")
}

func TestClient_BearerHeaderAndTrailingSlash(t *testing.T) {
	var gotAuth, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"id": 7, "status": "pending"}`))
	})

	bid, err := client.GetBid(context.Background(), "7")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "/bids/7/", gotPath)
	assert.Equal(t, models.ID("7"), bid.ID)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode apperror.ErrorCode
		wantMsg  string
	}{
		{"forbidden", http.StatusForbidden, `{}`, apperror.ErrCodeForbidden, "недостаточно прав"},
		{"not found", http.StatusNotFound, `{}`, apperror.ErrCodeNotFound, "не найден"},
		{"server error", http.StatusInternalServerError, `{}`, apperror.ErrCodeServer, "недоступен"},
		{"rate limited", http.StatusTooManyRequests, `{}`, apperror.ErrCodeRateLimited, "слишком много"},
		{"detail field", http.StatusBadRequest, `{"detail":"ставка уже отозвана"}`, apperror.ErrCodeBadRequest, "ставка уже отозвана"},
		{"error field", http.StatusBadRequest, `{"error":"сумма обязательна"}`, apperror.ErrCodeBadRequest, "сумма обязательна"},
		{"message field", http.StatusBadRequest, `{"message":"лимит ставок"}`, apperror.ErrCodeBadRequest, "лимит ставок"},
		{"fallback", http.StatusTeapot, `not json`, apperror.ErrCodeBadRequest, "HTTP 418"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.GetBid(context.Background(), "1")
			require.Error(t, err)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tc.wantCode, appErr.Code)
			assert.Contains(t, appErr.Message, tc.wantMsg)
		})
	}
}

func TestClient_ListQuerySerialization(t *testing.T) {
	var gotQuery map[string][]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"results": [], "count": 0}`))
	})

	_, err := client.ListMyBids(context.Background(), dto.ListBidsParams{
		Status:   "pending",
		Search:   "логотип",
		Ordering: "-created_at",
		PageSize: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"pending"}, gotQuery["status"])
	assert.Equal(t, []string{"логотип"}, gotQuery["search"])
	assert.Equal(t, []string{"-created_at"}, gotQuery["ordering"])
	assert.Equal(t, []string{"20"}, gotQuery["page_size"])
}

func TestClient_ListQueryOmitsAllAndEmpty(t *testing.T) {
	var rawQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"results": [], "count": 0}`))
	})

	_, err := client.ListMyBids(context.Background(), dto.ListBidsParams{Status: "all"})
	require.NoError(t, err)
	assert.Empty(t, rawQuery)
}

func TestClient_BidPayment_NotFoundIsNotError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"нет платежа"}`))
	})

	payment, err := client.BidPayment(context.Background(), "5")
	assert.NoError(t, err)
	assert.Nil(t, payment)
}

func TestClient_NetworkErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // соединение будет отказано

	client := NewClient(srv.URL, staticToken("t"), Options{})
	_, err := client.GetBid(context.Background(), "1")

	assert.Equal(t, apperror.ErrCodeNetwork, apperror.CodeOf(err))
}

func TestClient_ParseErrorCode(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{broken`))
	})

	_, err := client.GetBid(context.Background(), "1")
	assert.Equal(t, apperror.ErrCodeParse, apperror.CodeOf(err))
}

func TestCreateBid_ValidatesBeforeNetwork(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	// Почасовая ставка без rate/hours отклоняется локально.
	_, err := client.CreateBid(context.Background(), dto.CreateBidRequest{
		JobID:        "1",
		BidType:      models.BidTypeHourly,
		DeliveryDays: 5,
		ProposalText: "Готов выполнить заказ в срок",
	})

	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, 0, calls)
}
