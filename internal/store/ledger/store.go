// Package ledger persists every finished analysis run into the append-only
// ai_stock_analysis_records table. Rows are never updated or deleted.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"minerva/internal/decision"
	"minerva/internal/logger"
)

const timeLayout = "2006-01-02 15:04:05"

const schema = `
CREATE TABLE IF NOT EXISTS ai_stock_analysis_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	Stock TEXT NOT NULL,
	Time DATETIME NOT NULL,
	Decision TEXT NOT NULL,
	Percentage INTEGER NOT NULL,
	Reason TEXT NOT NULL,
	CurrentPrice REAL NOT NULL,
	ExpectedNextDayPrice REAL NOT NULL,
	ExpectedPriceDifference REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_stock_time ON ai_stock_analysis_records (Stock, Time);
`

// Entry is one persisted row.
type Entry struct {
	ID                      int64
	Stock                   string
	Time                    time.Time
	Decision                string
	Percentage              int
	Reason                  string
	CurrentPrice            float64
	ExpectedNextDayPrice    float64
	ExpectedPriceDifference float64
}

type Store struct {
	db *sql.DB
}

// Open creates or reopens the ledger database. The schema statement is
// idempotent, so reopening an existing file is safe.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ledger: create dir %s: %w", dir, err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("ledger: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: init schema: %w", err)
	}
	logger.Debugf("ledger ready at %s", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Append writes one verdict row. Prices are rounded half-up to two decimals
// before storage and the expected difference is derived here, from the
// rounded values, so a row is internally consistent by construction.
func (s *Store) Append(ctx context.Context, symbol string, rec *decision.Record, currentPrice decimal.Decimal, at time.Time) (*Entry, error) {
	current := currentPrice.Round(2)
	expected := decimal.NewFromFloat(rec.ExpectedNextDayPrice).Round(2)
	diff := expected.Sub(current).Round(2)

	entry := &Entry{
		Stock:                   symbol,
		Time:                    at.UTC().Truncate(time.Second),
		Decision:                string(rec.Decision),
		Percentage:              rec.Percentage,
		Reason:                  rec.Reason,
		CurrentPrice:            current.InexactFloat64(),
		ExpectedNextDayPrice:    expected.InexactFloat64(),
		ExpectedPriceDifference: diff.InexactFloat64(),
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO ai_stock_analysis_records
			(Stock, Time, Decision, Percentage, Reason, CurrentPrice, ExpectedNextDayPrice, ExpectedPriceDifference)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Stock, entry.Time.Format(timeLayout), entry.Decision, entry.Percentage,
		entry.Reason, entry.CurrentPrice, entry.ExpectedNextDayPrice, entry.ExpectedPriceDifference,
	)
	if err != nil {
		return nil, fmt.Errorf("ledger: append %s: %w", symbol, err)
	}
	if id, err := res.LastInsertId(); err == nil {
		entry.ID = id
	}
	return entry, nil
}

// List returns the most recent rows for a symbol, newest first.
func (s *Store) List(ctx context.Context, symbol string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, Stock, Time, Decision, Percentage, Reason, CurrentPrice, ExpectedNextDayPrice, ExpectedPriceDifference
		FROM ai_stock_analysis_records
		WHERE Stock = ?
		ORDER BY id DESC
		LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: list %s: %w", symbol, err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.ID, &e.Stock, &ts, &e.Decision, &e.Percentage, &e.Reason,
			&e.CurrentPrice, &e.ExpectedNextDayPrice, &e.ExpectedPriceDifference); err != nil {
			return nil, fmt.Errorf("ledger: scan: %w", err)
		}
		if parsed, err := time.Parse(timeLayout, ts); err == nil {
			e.Time = parsed.UTC()
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: list %s: %w", symbol, err)
	}
	return out, nil
}
