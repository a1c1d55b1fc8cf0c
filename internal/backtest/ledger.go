package backtest

import (
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/tickerlab/stratbench/internal/types"
	"github.com/tickerlab/stratbench/pkg/errors"
)

// CloseTransition is the ledger's record of a position fully closing: the
// position as it stood at exit time paired with the closing fill. The trade
// recorder turns transitions into Trade records.
type CloseTransition struct {
	Position types.Position
	Fill     types.Fill
}

// Ledger is the single source of truth for cash, the open position, and the
// equity curve of one run. Its state machine is Flat -> Long -> Flat or
// Flat -> Short -> Flat; nested or overlapping positions are invariant
// violations, as is any transition that would drive cash negative (the
// simulator rejects those fills before they reach the ledger).
//
// A ledger belongs to exactly one run on one goroutine and holds no locks.
type Ledger struct {
	symbol         string
	initialCapital decimal.Decimal
	cash           decimal.Decimal
	position       optional.Option[types.Position]
	curve          []types.EquityPoint
}

// NewLedger creates a flat ledger holding the initial capital in cash.
func NewLedger(symbol string, initialCapital decimal.Decimal) *Ledger {
	return &Ledger{
		symbol:         symbol,
		initialCapital: initialCapital,
		cash:           initialCapital,
		position:       optional.None[types.Position](),
		curve:          nil,
	}
}

// Cash returns the cash currently available.
func (l *Ledger) Cash() decimal.Decimal {
	return l.cash
}

// Position returns the open position, if any.
func (l *Ledger) Position() optional.Option[types.Position] {
	return l.position
}

// Curve returns the equity curve recorded so far, one point per bar.
func (l *Ledger) Curve() []types.EquityPoint {
	return l.curve
}

// Open applies an opening fill. Long entries debit the notional plus
// commission; short entries reserve the notional on the position and debit
// only the commission (margin-reserve accounting). The protective levels
// attach to the position for the engine to check on later bars.
func (l *Ledger) Open(fill types.Fill, stopLoss, takeProfit optional.Option[decimal.Decimal]) error {
	if l.position.IsSome() {
		return errors.NewInvariantErrorf("open", l.bar(), "position already open for %s", l.symbol)
	}

	if fill.Action != types.FillActionOpen {
		return errors.NewInvariantErrorf("open", l.bar(), "fill action %q is not an open", fill.Action)
	}

	debit := fill.Commission
	if fill.Side == types.SideLong {
		debit = fill.Notional().Add(fill.Commission)
	}

	if debit.GreaterThan(l.cash) {
		return errors.NewInvariantErrorf("open", l.bar(),
			"opening debit %s exceeds cash %s", debit, l.cash)
	}

	l.cash = l.cash.Sub(debit)
	l.position = optional.Some(types.Position{
		Symbol:          l.symbol,
		Side:            fill.Side,
		Shares:          fill.Shares,
		AvgEntryPrice:   fill.Price,
		EntryTime:       fill.Time,
		EntryCommission: fill.Commission,
		StopLoss:        stopLoss,
		TakeProfit:      takeProfit,
	})

	return nil
}

// Close applies a closing fill and returns the transition for the recorder.
// Longs credit the sale proceeds net of commission; shorts settle the price
// difference against the reserved notional.
func (l *Ledger) Close(fill types.Fill) (CloseTransition, error) {
	if l.position.IsNone() {
		return CloseTransition{}, errors.NewInvariantErrorf("close", l.bar(), "no open position for %s", l.symbol)
	}

	pos := l.position.Unwrap()

	if fill.Action != types.FillActionClose {
		return CloseTransition{}, errors.NewInvariantErrorf("close", l.bar(), "fill action %q is not a close", fill.Action)
	}

	if fill.Shares != pos.Shares {
		return CloseTransition{}, errors.NewInvariantErrorf("close", l.bar(),
			"closing %d shares against a position of %d; partial exits are not supported", fill.Shares, pos.Shares)
	}

	shares := decimal.NewFromInt(fill.Shares)

	if pos.Side == types.SideLong {
		l.cash = l.cash.Add(fill.Price.Mul(shares)).Sub(fill.Commission)
	} else {
		l.cash = l.cash.Add(pos.AvgEntryPrice.Sub(fill.Price).Mul(shares)).Sub(fill.Commission)
	}

	l.position = optional.None[types.Position]()

	return CloseTransition{Position: pos, Fill: fill}, nil
}

// MarkToMarket appends one equity point for the bar: cash plus the open
// position's value at the bar close. Called exactly once per processed bar,
// after any fills on that bar have been applied.
func (l *Ledger) MarkToMarket(bar types.Bar) types.EquityPoint {
	equity := l.cash
	if l.position.IsSome() {
		equity = equity.Add(l.position.Unwrap().MarketValue(bar.Close))
	}

	point := types.EquityPoint{Time: bar.Time, Equity: equity}
	l.curve = append(l.curve, point)

	return point
}

// RestateLastEquity rewrites the final equity point after the end-of-data
// force close so the curve ends at the settled cash value rather than the
// pre-close mark.
func (l *Ledger) RestateLastEquity() {
	if len(l.curve) == 0 || l.position.IsSome() {
		return
	}

	l.curve[len(l.curve)-1].Equity = l.cash
}

// bar reports the index of the bar currently being processed. Equity points
// append at the end of each bar, so the curve length is the live index.
func (l *Ledger) bar() int {
	return len(l.curve)
}
