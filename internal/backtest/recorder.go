package backtest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tickerlab/stratbench/internal/types"
)

// tradeNamespace scopes the deterministic trade IDs. Trade IDs are v5 UUIDs
// derived from the trade's identifying fields so that two runs over
// identical inputs produce identical ledgers.
var tradeNamespace = uuid.MustParse("f4dd9de6-2f48-4a45-b5b3-1c1a6e1b05c7")

// Recorder turns ledger close transitions into the run's trade list. It is
// a pure transformation: all accounting state lives in the ledger.
type Recorder struct {
	trades []types.Trade
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record materializes the Trade for a close transition. Trades append in
// closing order, which is chronological exit order because at most one
// position is open at a time.
func (r *Recorder) Record(transition CloseTransition, reason types.ExitReason) types.Trade {
	pos := transition.Position
	fill := transition.Fill
	shares := decimal.NewFromInt(pos.Shares)

	gross := fill.Price.Sub(pos.AvgEntryPrice).Mul(shares)
	if pos.Side == types.SideShort {
		gross = pos.AvgEntryPrice.Sub(fill.Price).Mul(shares)
	}

	pnl := gross.Sub(pos.EntryCommission).Sub(fill.Commission)

	pnlPct := decimal.Zero
	if notional := pos.EntryNotional(); notional.IsPositive() {
		pnlPct = pnl.Div(notional)
	}

	trade := types.Trade{
		ID:           tradeID(pos, fill),
		Symbol:       pos.Symbol,
		Side:         pos.Side,
		EntryDate:    pos.EntryTime,
		EntryPrice:   pos.AvgEntryPrice,
		ExitDate:     fill.Time,
		ExitPrice:    fill.Price,
		Shares:       pos.Shares,
		PnL:          pnl,
		PnLPct:       pnlPct,
		DurationDays: int(fill.Time.Sub(pos.EntryTime) / (24 * time.Hour)),
		ExitReason:   reason,
	}

	r.trades = append(r.trades, trade)

	return trade
}

// Trades returns the trades recorded so far in closing order.
func (r *Recorder) Trades() []types.Trade {
	return r.trades
}

func tradeID(pos types.Position, fill types.Fill) string {
	seed := fmt.Sprintf("%s|%s|%s|%s|%d",
		pos.Symbol, pos.Side,
		pos.EntryTime.UTC().Format(time.RFC3339Nano),
		fill.Time.UTC().Format(time.RFC3339Nano),
		pos.Shares)

	return uuid.NewSHA1(tradeNamespace, []byte(seed)).String()
}
