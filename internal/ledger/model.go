package ledger

import "time"

// Status is the lifecycle of a trade record.
type Status string

const (
	StatusOpen            Status = "OPEN"
	StatusPartiallyClosed Status = "PARTIALLY_CLOSED"
	StatusClosed          Status = "CLOSED"
)

// Trade is the persisted audit record for one placed order. Rows are
// created at placement, mutated on close and never deleted: the risk gate
// reads its limits off this table.
type Trade struct {
	ID         int64      `gorm:"column:id;primaryKey"`
	OrderID    string     `gorm:"column:order_id;uniqueIndex"`
	AccountID  string     `gorm:"column:account_id;index"`
	Symbol     string     `gorm:"column:symbol;index"`
	Strategy   string     `gorm:"column:strategy"`
	Side       string     `gorm:"column:side"`
	Quantity   int        `gorm:"column:quantity"`
	EntryPrice float64    `gorm:"column:entry_price"`
	EntryTime  time.Time  `gorm:"column:entry_time;index"`
	StopLoss   float64    `gorm:"column:stop_loss"`
	Target     float64    `gorm:"column:target"`
	Status     Status     `gorm:"column:status;index"`
	ExitTime   *time.Time `gorm:"column:exit_time"`
	ExitPrice  float64    `gorm:"column:exit_price"`
	PnL        float64    `gorm:"column:pnl"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (Trade) TableName() string { return "trades" }
