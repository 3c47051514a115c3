package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MarketCorrelator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRunReport_OK(t *testing.T) {
	msg := FormatRunReport(&model.RunSummary{
		StartedAt: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		Tickers:   []string{"SPY", "QQQ", "X<Y"},
		Start:     "2021-01-01",
		Rows:      42,
		Dropped:   []string{"X<Y"},
		Outcome:   model.OutcomeOK,
		Pairs:     []model.Pair{{A: "SPY", B: "QQQ", Value: 0.9312}},
	})

	assert.Contains(t, msg, "2021-01-01 → today (42 rows)")
	assert.Contains(t, msg, "Dropped (no data): X&lt;Y")
	assert.Contains(t, msg, "1. SPY / QQQ: +0.93")
}

func TestFormatRunReport_EarlyStop(t *testing.T) {
	msg := FormatRunReport(&model.RunSummary{
		Tickers: []string{"AAA"},
		Start:   "2021-01-01",
		End:     "2021-02-01",
		Outcome: "no data returned",
	})
	assert.Contains(t, msg, "⚠️ no data returned")
	assert.NotContains(t, msg, "Highest correlations")
}

func TestTelegramNotifier_Send(t *testing.T) {
	var path string
	var payload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&payload)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.BaseURL = srv.URL
	require.NoError(t, n.Send(context.Background(), "hello"))

	assert.Equal(t, "/botTOKEN/sendMessage", path)
	assert.Equal(t, "42", payload["chat_id"])
	assert.Equal(t, "hello", payload["text"])
	assert.Equal(t, "HTML", payload["parse_mode"])
	assert.Equal(t, true, payload["disable_web_page_preview"])
}

func TestTelegramNotifier_SendNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.BaseURL = srv.URL
	assert.ErrorContains(t, n.Send(context.Background(), "hello"), "chat not found")
}

func TestTelegramNotifier_RedactsToken(t *testing.T) {
	n := NewTelegramNotifier("SECRET", "42", "")
	n.BaseURL = "http://127.0.0.1:1"
	err := n.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET")
}

func TestTelegramNotifier_SendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.BaseURL = srv.URL
	assert.ErrorContains(t, n.Send(context.Background(), "hello"), "status 401")
}
