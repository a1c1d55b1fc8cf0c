package types

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// Position represents the single open holding of a run. It exists only while
// Shares > 0 and is owned exclusively by the portfolio ledger.
//
// Short positions use margin-reserve accounting: the entry proceeds are not
// credited to cash. The position carries the entry notional and settles the
// difference against cash when it closes.
type Position struct {
	Symbol        string          `yaml:"symbol" json:"symbol"`
	Side          Side            `yaml:"side" json:"side"`
	Shares        int64           `yaml:"shares" json:"shares"`
	AvgEntryPrice decimal.Decimal `yaml:"avg_entry_price" json:"avg_entry_price"`
	EntryTime     time.Time       `yaml:"entry_time" json:"entry_time"`
	// EntryCommission is carried so the closing trade's PnL nets both legs' fees.
	EntryCommission decimal.Decimal                  `yaml:"entry_commission" json:"entry_commission"`
	StopLoss        optional.Option[decimal.Decimal] `yaml:"stop_loss" json:"stop_loss"`
	TakeProfit      optional.Option[decimal.Decimal] `yaml:"take_profit" json:"take_profit"`
}

// EntryNotional returns shares times the average entry price.
func (p Position) EntryNotional() decimal.Decimal {
	return p.AvgEntryPrice.Mul(decimal.NewFromInt(p.Shares))
}

// MarketValue returns the position's contribution to equity at the given
// close price. Longs mark at the close; shorts mark at the unrealized gain
// over the reserved entry notional, which may be negative.
func (p Position) MarketValue(closePrice decimal.Decimal) decimal.Decimal {
	shares := decimal.NewFromInt(p.Shares)
	if p.Side == SideShort {
		return p.AvgEntryPrice.Sub(closePrice).Mul(shares)
	}

	return closePrice.Mul(shares)
}
