package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExitReason identifies what closed a trade.
type ExitReason string

const (
	// ExitReasonSignal marks a close requested by the strategy.
	ExitReasonSignal ExitReason = "signal_exit"
	// ExitReasonStopLoss marks a close triggered by the protective stop price.
	ExitReasonStopLoss ExitReason = "stop_loss"
	// ExitReasonTakeProfit marks a close triggered by the protective take price.
	ExitReasonTakeProfit ExitReason = "take_profit"
	// ExitReasonEndOfData marks a forced close after the last processed bar.
	ExitReasonEndOfData ExitReason = "end_of_data"
)

// Trade is the closed record of one position round trip, materialized when a
// position fully exits. PnL is net of entry and exit commission; PnLPct is
// measured against the entry notional.
type Trade struct {
	ID           string          `yaml:"id" json:"id" csv:"id"`
	Symbol       string          `yaml:"symbol" json:"symbol" csv:"symbol"`
	Side         Side            `yaml:"side" json:"side" csv:"side"`
	EntryDate    time.Time       `yaml:"entry_date" json:"entry_date" csv:"entry_date"`
	EntryPrice   decimal.Decimal `yaml:"entry_price" json:"entry_price" csv:"entry_price"`
	ExitDate     time.Time       `yaml:"exit_date" json:"exit_date" csv:"exit_date"`
	ExitPrice    decimal.Decimal `yaml:"exit_price" json:"exit_price" csv:"exit_price"`
	Shares       int64           `yaml:"shares" json:"shares" csv:"shares"`
	PnL          decimal.Decimal `yaml:"pnl" json:"pnl" csv:"pnl"`
	PnLPct       decimal.Decimal `yaml:"pnl_pct" json:"pnl_pct" csv:"pnl_pct"`
	DurationDays int             `yaml:"duration_days" json:"duration_days" csv:"duration_days"`
	ExitReason   ExitReason      `yaml:"exit_reason" json:"exit_reason" csv:"exit_reason"`
}

// IsWin reports whether the trade closed with positive PnL.
func (t Trade) IsWin() bool {
	return t.PnL.IsPositive()
}

// IsLoss reports whether the trade closed with negative PnL. Flat trades are
// neither wins nor losses.
func (t Trade) IsLoss() bool {
	return t.PnL.IsNegative()
}
