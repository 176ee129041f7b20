package model

import (
	"gorm.io/datatypes"
)

// TradeModel is one row in the trade journal. An open event inserts the
// row; the matching close event fills the exit columns.
type TradeModel struct {
	ID            int64          `gorm:"column:id;primaryKey"`
	PositionID    string         `gorm:"column:position_id;uniqueIndex"`
	Symbol        string         `gorm:"column:symbol;index"`
	Side          string         `gorm:"column:side"`
	Quantity      float64        `gorm:"column:quantity"`
	EntryPrice    float64        `gorm:"column:entry_price"`
	TakeProfit    float64        `gorm:"column:take_profit"`
	StopLoss      float64        `gorm:"column:stop_loss"`
	ExitPrice     float64        `gorm:"column:exit_price"`
	PnL           float64        `gorm:"column:pnl"`
	ExitReason    string         `gorm:"column:exit_reason"`
	Detail        datatypes.JSON `gorm:"column:detail;type:TEXT"`
	OpenedAtUnix  int64          `gorm:"column:opened_at"`
	ClosedAtUnix  int64          `gorm:"column:closed_at"`
	CreatedAtUnix int64          `gorm:"column:created_at"`
	UpdatedAtUnix int64          `gorm:"column:updated_at"`
}

func (TradeModel) TableName() string { return "trades" }
