package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBid_DisplayTotal_HourlyInvariant(t *testing.T) {
	rate := 50.0
	hours := 20.0
	bid := Bid{BidType: BidTypeHourly, HourlyRate: &rate, EstimatedHours: &hours}

	assert.Equal(t, 1000.0, bid.DisplayTotal(), "total = hourly_rate × estimated_hours")
}

func TestBid_DisplayTotal_ExplicitWins(t *testing.T) {
	rate := 50.0
	hours := 20.0
	total := 900.0
	bid := Bid{BidType: BidTypeHourly, HourlyRate: &rate, EstimatedHours: &hours, TotalAmount: &total}

	assert.Equal(t, 900.0, bid.DisplayTotal(), "явная сумма сервера имеет приоритет")
}

func TestBid_DisplayTotal_FractionalRate(t *testing.T) {
	// 0.1 × 3 в float64 дало бы 0.30000000000000004.
	rate := 0.1
	hours := 3.0
	bid := Bid{BidType: BidTypeHourly, HourlyRate: &rate, EstimatedHours: &hours}

	assert.Equal(t, 0.3, bid.DisplayTotal())
}

func TestBid_DisplayTotal_MissingFields(t *testing.T) {
	bid := Bid{BidType: BidTypeHourly}
	assert.Equal(t, 0.0, bid.DisplayTotal())
}

func TestID_UnmarshalNumberAndString(t *testing.T) {
	var numeric, str ID
	require.NoError(t, json.Unmarshal([]byte(`42`), &numeric))
	require.NoError(t, json.Unmarshal([]byte(`"42"`), &str))

	assert.Equal(t, numeric, str, "обе формы схлопываются в один ключ")
	assert.Equal(t, ID("42"), numeric)
}

func TestID_UnmarshalNull(t *testing.T) {
	var id ID
	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.True(t, id.IsZero())
}

func TestID_MarshalAlwaysString(t *testing.T) {
	raw, err := json.Marshal(ID("42"))
	require.NoError(t, err)
	assert.Equal(t, `"42"`, string(raw))
}

func TestParseID(t *testing.T) {
	assert.Equal(t, ID("42"), ParseID(42))
	assert.Equal(t, ID("42"), ParseID(int64(42)))
	assert.Equal(t, ID("42"), ParseID(float64(42)))
	assert.Equal(t, ID("42"), ParseID(" 42 "))
	assert.Equal(t, ID(""), ParseID(nil))
}

func TestBid_IsTerminal(t *testing.T) {
	assert.False(t, (&Bid{Status: BidStatusPending}).IsTerminal())
	for _, status := range []string{BidStatusAccepted, BidStatusRejected, BidStatusWithdrawn, BidStatusExpired} {
		assert.True(t, (&Bid{Status: status}).IsTerminal(), status)
	}
}
