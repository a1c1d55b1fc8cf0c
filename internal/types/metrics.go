package types

import (
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// Metrics is the aggregate performance snapshot computed once after a run.
//
// AnnualizedReturn and CAGR carry the same value: with a single continuous
// holding window the two formulas coincide, so the duplication is expected
// behavior rather than a bug. Values that are undefined for degenerate
// inputs are None, never Inf or NaN:
//   - ProfitFactor is None when there are no losing trades.
//   - SharpeRatio is None when there are fewer than two daily returns or the
//     return variance is zero.
type Metrics struct {
	TotalReturn      decimal.Decimal                  `json:"total_return"`
	AnnualizedReturn decimal.Decimal                  `json:"annualized_return"`
	CAGR             decimal.Decimal                  `json:"cagr"`
	WinRate          decimal.Decimal                  `json:"win_rate"`
	ProfitFactor     optional.Option[decimal.Decimal] `json:"profit_factor"`
	MaxDrawdown      decimal.Decimal                  `json:"max_drawdown"`
	SharpeRatio      optional.Option[decimal.Decimal] `json:"sharpe_ratio"`
	TotalTrades      int                              `json:"total_trades"`
	WinningTrades    int                              `json:"winning_trades"`
	LosingTrades     int                              `json:"losing_trades"`
	AverageWin       decimal.Decimal                  `json:"average_win"`
	AverageLoss      decimal.Decimal                  `json:"average_loss"`
}
