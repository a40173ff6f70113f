// Package runlog keeps a full audit trail of oracle exchanges: prompts, raw
// replies and parse outcomes, one row per attempt, successful or not. The
// ledger answers "what did we decide"; the run log answers "what exactly was
// said".
package runlog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"minerva/internal/logger"
)

// Exchange is one oracle round trip. Verdict is the parsed reply when the
// schema accepted it; ParseError holds the rejection otherwise.
type Exchange struct {
	ID           uint   `gorm:"primaryKey"`
	TraceID      string `gorm:"size:36;index"`
	Symbol       string `gorm:"size:16;index"`
	Model        string `gorm:"size:64"`
	SystemPrompt string `gorm:"type:text"`
	UserPrompt   string `gorm:"type:text"`
	RawOutput    string `gorm:"type:text"`
	Verdict      datatypes.JSON
	ParseError   string
	CreatedAt    time.Time
}

func (Exchange) TableName() string { return "oracle_exchanges" }

// NewExchange stamps a fresh trace id.
func NewExchange(symbol, model string) *Exchange {
	return &Exchange{TraceID: uuid.NewString(), Symbol: symbol, Model: model}
}

type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("runlog: create dir %s: %w", dir, err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("runlog: open %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("runlog: %w", err)
	}
	sqlDB.SetMaxOpenConns(2)
	if err := db.AutoMigrate(&Exchange{}); err != nil {
		return nil, fmt.Errorf("runlog: migrate: %w", err)
	}
	logger.Debugf("runlog ready at %s", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Record(ctx context.Context, ex *Exchange) error {
	if err := s.db.WithContext(ctx).Create(ex).Error; err != nil {
		return fmt.Errorf("runlog: record %s: %w", ex.Symbol, err)
	}
	return nil
}

// Recent returns the latest exchanges for a symbol, newest first.
func (s *Store) Recent(ctx context.Context, symbol string, limit int) ([]Exchange, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []Exchange
	err := s.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("runlog: recent %s: %w", symbol, err)
	}
	return out, nil
}
