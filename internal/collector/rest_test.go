package collector

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTFetcher_FetchDailyBars(t *testing.T) {
	var auth, symbol string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		symbol = r.URL.Query().Get("symbol")
		// unordered, one bar outside the window, one without adj_close
		w.Write([]byte(`[
			{"timestamp":1704240000,"close":11,"adj_close":10.5},
			{"timestamp":1704153600,"close":10},
			{"timestamp":1706745600,"close":99,"adj_close":99}
		]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", "")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchDailyBars(context.Background(), "AAPL", start, end)
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "AAPL", symbol)
	require.Len(t, bars, 2)
	assert.Equal(t, 10.0, bars[0].Close)
	assert.True(t, math.IsNaN(bars[0].AdjClose))
	assert.Equal(t, 10.5, bars[1].AdjClose)
}

func TestRESTFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewRESTFetcher(srv.URL, "", "").FetchDailyBars(context.Background(), "AAPL", time.Now().AddDate(0, -1, 0), time.Time{})
	assert.ErrorContains(t, err, "status 500")
}

func TestNewHTTPClient(t *testing.T) {
	c := newHTTPClient("")
	assert.Equal(t, 30*time.Second, c.Timeout, "a stalled provider must not hang the run")

	c = newHTTPClient("http://proxy.local:3128")
	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	req, _ := http.NewRequest(http.MethodGet, "https://query1.finance.yahoo.com", nil)
	u, err := tr.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "proxy.local:3128", u.Host)
}
