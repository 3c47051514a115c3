package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"MarketCorrelator/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zap.Logger) (*SQLiteRecorder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets readers inspect history while a watch-mode process keeps writing.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id         TEXT PRIMARY KEY,
			timestamp  INTEGER NOT NULL,
			tickers    TEXT,
			start_date TEXT,
			end_date   TEXT,
			row_count  INTEGER,
			dropped    TEXT,
			outcome    TEXT,
			files      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS correlation_pairs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL REFERENCES runs(id),
			rank        INTEGER,
			ticker_a    TEXT,
			ticker_b    TEXT,
			correlation REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pairs_run ON correlation_pairs(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores rec and its pairs in one transaction. An empty rec.ID is filled with a new UUID.
func (r *SQLiteRecorder) RecordRun(rec *model.RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs
		(id, timestamp, tickers, start_date, end_date, row_count, dropped, outcome, files)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.StartedAt.Unix(), strings.Join(rec.Tickers, ","), rec.Start, rec.End,
		rec.Rows, strings.Join(rec.Dropped, ","), rec.Outcome, strings.Join(rec.Files, ","),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, p := range rec.Pairs {
		if _, err := tx.Exec(`INSERT INTO correlation_pairs
			(run_id, rank, ticker_a, ticker_b, correlation)
			VALUES (?,?,?,?,?)`,
			rec.ID, i+1, p.A, p.B, p.Value,
		); err != nil {
			return fmt.Errorf("insert pair: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
