// Package strategy defines the decision capability the backtest engine
// consumes and a registry of named strategy factories. The engine holds a
// Strategy as an opaque handle and calls Decide exactly once per bar; it
// never branches on the concrete type behind the interface.
package strategy

import (
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/tickerlab/stratbench/internal/types"
)

// Strategy is the capability contract between the engine and any decision
// logic. Implementations must be deterministic over the context they are
// handed: two runs over identical inputs must produce identical signals.
type Strategy interface {
	// Name returns the unique identifier for this strategy.
	Name() string

	// Init performs one-time setup from opaque configuration parameters
	// before the first bar. The engine never calls Init; the caller wires
	// it before the run.
	Init(params map[string]any) error

	// Decide returns the signal for the current bar. The context exposes
	// only the bar history up to and including the current bar, so a
	// strategy cannot observe the future.
	Decide(ctx Context) (types.Signal, error)
}

// Context is the windowed view of the run a strategy decides from. The
// engine rebuilds it every bar from a prefix of the series, which makes
// look-ahead structurally impossible rather than merely discouraged.
type Context struct {
	symbol   string
	bars     []types.Bar
	index    int
	position optional.Option[types.Position]
	cash     decimal.Decimal
}

// NewContext assembles the per-bar view handed to Decide. bars must be the
// series prefix ending at the current bar.
func NewContext(
	symbol string,
	bars []types.Bar,
	index int,
	position optional.Option[types.Position],
	cash decimal.Decimal,
) Context {
	return Context{
		symbol:   symbol,
		bars:     bars,
		index:    index,
		position: position,
		cash:     cash,
	}
}

// Symbol returns the symbol being simulated.
func (c Context) Symbol() string {
	return c.symbol
}

// Bars returns the bar history up to and including the current bar.
// Callers must treat the slice as read-only.
func (c Context) Bars() []types.Bar {
	return c.bars
}

// Bar returns the current bar.
func (c Context) Bar() types.Bar {
	return c.bars[len(c.bars)-1]
}

// Index returns the zero-based position of the current bar in the series.
func (c Context) Index() int {
	return c.index
}

// Position returns the open position, if any.
func (c Context) Position() optional.Option[types.Position] {
	return c.position
}

// Cash returns the cash available for entries on this bar.
func (c Context) Cash() decimal.Decimal {
	return c.cash
}
