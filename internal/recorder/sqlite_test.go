package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"MarketCorrelator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"), nil)
	require.NoError(t, err)
	defer r.Close()

	rec := &model.RunSummary{
		StartedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Tickers:   []string{"SPY", "QQQ", "BAD"},
		Start:     "2021-01-01",
		Rows:      250,
		Dropped:   []string{"BAD"},
		Outcome:   "ok",
		Pairs:     []model.Pair{{A: "SPY", B: "QQQ", Value: 0.93}},
	}
	require.NoError(t, r.RecordRun(rec))
	assert.NotEmpty(t, rec.ID)

	var tickers, dropped string
	var rows int
	require.NoError(t, r.db.QueryRow(`SELECT tickers, dropped, row_count FROM runs WHERE id = ?`, rec.ID).
		Scan(&tickers, &dropped, &rows))
	assert.Equal(t, "SPY,QQQ,BAD", tickers)
	assert.Equal(t, "BAD", dropped)
	assert.Equal(t, 250, rows)

	var a, b string
	var corr float64
	require.NoError(t, r.db.QueryRow(`SELECT ticker_a, ticker_b, correlation FROM correlation_pairs WHERE run_id = ?`, rec.ID).
		Scan(&a, &b, &corr))
	assert.Equal(t, "SPY", a)
	assert.Equal(t, "QQQ", b)
	assert.InDelta(t, 0.93, corr, 1e-12)
}

func TestSQLiteRecorder_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	r, err := NewSQLiteRecorder(path, nil)
	require.NoError(t, err)
	require.NoError(t, r.RecordRun(&model.RunSummary{StartedAt: time.Now(), Outcome: "no data"}))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path, nil)
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.RecordRun(&model.RunSummary{StartedAt: time.Now(), Outcome: "ok"}))

	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRun(&model.RunSummary{}))
	assert.NoError(t, r.Close())
}
