// Package ledger persists trade records in SQLite. It is the sole durable
// store the core owns and the only input the risk gate trusts.
package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps the trades table.
type Store struct {
	db *gorm.DB
}

// Open initializes the store at path, migrating the schema as needed.
// WAL keeps the watchdog's writes from blocking foreground reads.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("ledger: store path cannot be empty")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("ledger: opening %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Trade{}); err != nil {
		return nil, fmt.Errorf("ledger: migrating schema: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &Store{db: db}, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Insert writes a new trade row. A duplicate order id is an error; the
// executor treats that as a persistence inconsistency.
func (s *Store) Insert(ctx context.Context, t *Trade) error {
	if t == nil {
		return fmt.Errorf("ledger: nil trade")
	}
	if t.OrderID == "" {
		return fmt.Errorf("ledger: trade without order id")
	}
	if t.Status == "" {
		t.Status = StatusOpen
	}
	return s.db.WithContext(ctx).Create(t).Error
}

// MarkClosed finalizes a trade: status, exit timestamp, exit price, pnl.
func (s *Store) MarkClosed(ctx context.Context, orderID string, exitTime time.Time, exitPrice, pnl float64) error {
	res := s.db.WithContext(ctx).Model(&Trade{}).
		Where("order_id = ?", orderID).
		Updates(map[string]any{
			"status":     StatusClosed,
			"exit_time":  exitTime,
			"exit_price": exitPrice,
			"pnl":        pnl,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("ledger: no trade with order id %s", orderID)
	}
	return nil
}

// OpenTrades lists the account's OPEN rows, oldest first.
func (s *Store) OpenTrades(ctx context.Context, account string) ([]Trade, error) {
	var out []Trade
	err := s.db.WithContext(ctx).
		Where("account_id = ? AND status = ?", account, StatusOpen).
		Order("entry_time asc").
		Find(&out).Error
	return out, err
}

// CountOpen counts the account's OPEN rows.
func (s *Store) CountOpen(ctx context.Context, account string) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Trade{}).
		Where("account_id = ? AND status = ?", account, StatusOpen).
		Count(&n).Error
	return int(n), err
}

// DailyRealizedPnL sums the pnl of trades entered on day (a midnight
// boundary in exchange time) that have already exited.
func (s *Store) DailyRealizedPnL(ctx context.Context, account string, day time.Time) (float64, error) {
	var sum *float64
	err := s.db.WithContext(ctx).Model(&Trade{}).
		Select("SUM(pnl)").
		Where("account_id = ? AND entry_time >= ? AND entry_time < ? AND exit_time IS NOT NULL",
			account, day, day.Add(24*time.Hour)).
		Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}

// TradesOn counts all trades entered on day, open or closed.
func (s *Store) TradesOn(ctx context.Context, account string, day time.Time) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Trade{}).
		Where("account_id = ? AND entry_time >= ? AND entry_time < ?",
			account, day, day.Add(24*time.Hour)).
		Count(&n).Error
	return int(n), err
}

// WinRate reports winning and total closed trades for symbol since the
// given time.
func (s *Store) WinRate(ctx context.Context, symbol string, since time.Time) (wins, total int, err error) {
	type row struct {
		Total int64
		Wins  int64
	}
	var r row
	err = s.db.WithContext(ctx).Model(&Trade{}).
		Select("COUNT(*) AS total, SUM(CASE WHEN pnl > 0 THEN 1 ELSE 0 END) AS wins").
		Where("symbol = ? AND entry_time >= ? AND status = ?", symbol, since, StatusClosed).
		Scan(&r).Error
	if err != nil {
		return 0, 0, err
	}
	return int(r.Wins), int(r.Total), nil
}
