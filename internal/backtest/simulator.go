// Package backtest implements the simulation core: the execution simulator,
// the portfolio ledger, the trade recorder, and the engine that drives them
// bar by bar. The engine never fetches data, loads configuration, logs, or
// formats output; those concerns belong to the surrounding collaborators.
package backtest

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/tickerlab/stratbench/internal/backtest/commission"
	"github.com/tickerlab/stratbench/internal/types"
)

// Simulator converts signals into fills by applying slippage and commission
// to the bar's reference price. It is a stateless policy object: the same
// inputs always produce the same fill.
//
// Slippage and commission are applied identically regardless of order size;
// market impact is deliberately not modeled.
type Simulator struct {
	slippagePct decimal.Decimal
	commission  commission.Model
}

// NewSimulator creates a Simulator from the run's execution policy.
func NewSimulator(slippagePct decimal.Decimal, model commission.Model) *Simulator {
	return &Simulator{
		slippagePct: slippagePct,
		commission:  model,
	}
}

// Fill converts the signal decided on this bar into a fill against the
// bar's closing price, or None when nothing executes:
//
//   - hold signals never fill;
//   - entries while a position is open never fill (no pyramiding);
//   - exits that do not match the open side never fill;
//   - entries whose sized share count floors to zero never fill
//     (cannot afford one share: a no-op, not an error);
//   - entries whose cost plus commission would overdraw cash never fill.
func (s *Simulator) Fill(
	symbol string,
	signal types.Signal,
	bar types.Bar,
	position optional.Option[types.Position],
	cash decimal.Decimal,
) optional.Option[types.Fill] {
	switch signal.Kind {
	case types.SignalEnterLong:
		if position.IsSome() {
			return optional.None[types.Fill]()
		}

		return s.entry(symbol, types.SideLong, signal.SizeFraction, bar, cash)
	case types.SignalEnterShort:
		if position.IsSome() {
			return optional.None[types.Fill]()
		}

		return s.entry(symbol, types.SideShort, signal.SizeFraction, bar, cash)
	case types.SignalExitLong:
		if position.IsNone() || position.Unwrap().Side != types.SideLong {
			return optional.None[types.Fill]()
		}

		return optional.Some(s.exit(position.Unwrap(), bar.Time, bar.Close))
	case types.SignalExitShort:
		if position.IsNone() || position.Unwrap().Side != types.SideShort {
			return optional.None[types.Fill]()
		}

		return optional.Some(s.exit(position.Unwrap(), bar.Time, bar.Close))
	default:
		return optional.None[types.Fill]()
	}
}

// ForceClose builds the fill that closes a position outside the strategy's
// control: protective stop or take triggers and the end-of-data close. The
// reference price is the trigger price (already clamped to the bar range by
// the engine) or the final close; slippage and commission apply as they do
// for any other exit.
func (s *Simulator) ForceClose(position types.Position, t time.Time, refPrice decimal.Decimal) types.Fill {
	return s.exit(position, t, refPrice)
}

// entry sizes a new position: commit cash x fraction at the slippage-adjusted
// price and floor to whole shares.
func (s *Simulator) entry(
	symbol string,
	side types.Side,
	fraction decimal.Decimal,
	bar types.Bar,
	cash decimal.Decimal,
) optional.Option[types.Fill] {
	price := s.adjust(bar.Close, side, types.FillActionOpen)
	if !price.IsPositive() {
		return optional.None[types.Fill]()
	}

	target := cash.Mul(fraction)

	shares := target.Div(price).Floor().IntPart()
	if shares <= 0 {
		return optional.None[types.Fill]()
	}

	fee := s.commission.Calculate(shares, price)

	// The ledger never sees an entry that would overdraw cash. Longs pay
	// the notional plus the fee; shorts reserve the notional and pay only
	// the fee up front.
	debit := fee
	if side == types.SideLong {
		debit = price.Mul(decimal.NewFromInt(shares)).Add(fee)
	}

	if debit.GreaterThan(cash) {
		return optional.None[types.Fill]()
	}

	return optional.Some(types.Fill{
		Time:       bar.Time,
		Symbol:     symbol,
		Side:       side,
		Action:     types.FillActionOpen,
		Price:      price,
		Shares:     shares,
		Commission: fee,
	})
}

// exit closes the full position at the slippage-adjusted reference price.
// Partial exits are out of scope.
func (s *Simulator) exit(position types.Position, t time.Time, refPrice decimal.Decimal) types.Fill {
	price := s.adjust(refPrice, position.Side, types.FillActionClose)

	return types.Fill{
		Time:       t,
		Symbol:     position.Symbol,
		Side:       position.Side,
		Action:     types.FillActionClose,
		Price:      price,
		Shares:     position.Shares,
		Commission: s.commission.Calculate(position.Shares, price),
	}
}

// adjust moves the reference price against the acting party: buyers pay up,
// sellers receive less. Opening a long and closing a short are buys;
// opening a short and closing a long are sells.
func (s *Simulator) adjust(ref decimal.Decimal, side types.Side, action types.FillAction) decimal.Decimal {
	one := decimal.NewFromInt(1)

	buying := (side == types.SideLong && action == types.FillActionOpen) ||
		(side == types.SideShort && action == types.FillActionClose)

	if buying {
		return ref.Mul(one.Add(s.slippagePct))
	}

	return ref.Mul(one.Sub(s.slippagePct))
}
