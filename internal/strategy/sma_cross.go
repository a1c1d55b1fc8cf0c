package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tickerlab/stratbench/internal/types"
)

// SMACrossName is the registry name of the moving-average crossover strategy.
const SMACrossName = "sma_cross"

// SMACross buys when the fast simple moving average crosses above the slow
// one and exits when it crosses back below. Averages are computed over
// closing prices from the context's bar history only.
type SMACross struct {
	fastPeriod   int
	slowPeriod   int
	sizeFraction decimal.Decimal
}

// NewSMACross creates an SMA crossover strategy with 10/30 periods.
func NewSMACross() *SMACross {
	return &SMACross{
		fastPeriod:   10,
		slowPeriod:   30,
		sizeFraction: decimal.NewFromInt(1),
	}
}

// Name implements Strategy.
func (s *SMACross) Name() string {
	return SMACrossName
}

// Init implements Strategy. Parameters:
//   - fast: fast average window, default 10
//   - slow: slow average window, default 30; must exceed fast
//   - size_fraction: fraction of cash committed on entry, default 1.
func (s *SMACross) Init(params map[string]any) error {
	fast, err := intParam(params, "fast", 10)
	if err != nil {
		return err
	}

	slow, err := intParam(params, "slow", 30)
	if err != nil {
		return err
	}

	if fast < 1 || slow <= fast {
		return fmt.Errorf("window periods must satisfy 1 <= fast < slow, got fast=%d slow=%d", fast, slow)
	}

	fraction, err := decimalParam(params, "size_fraction", decimal.NewFromInt(1))
	if err != nil {
		return err
	}

	if !fraction.IsPositive() || fraction.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("size_fraction must be in (0, 1], got %s", fraction)
	}

	s.fastPeriod = fast
	s.slowPeriod = slow
	s.sizeFraction = fraction

	return nil
}

// Decide implements Strategy.
func (s *SMACross) Decide(ctx Context) (types.Signal, error) {
	bars := ctx.Bars()

	// The crossover needs the slow average for this bar and the previous
	// one, so one extra bar of history.
	if len(bars) <= s.slowPeriod {
		return types.Hold(), nil
	}

	fast := smaClose(bars, s.fastPeriod)
	slow := smaClose(bars, s.slowPeriod)

	prev := bars[:len(bars)-1]
	prevFast := smaClose(prev, s.fastPeriod)
	prevSlow := smaClose(prev, s.slowPeriod)

	goldenCross := fast.GreaterThan(slow) && prevFast.LessThanOrEqual(prevSlow)
	deathCross := fast.LessThan(slow) && prevFast.GreaterThanOrEqual(prevSlow)

	if goldenCross && ctx.Position().IsNone() {
		return types.EnterLong(s.sizeFraction), nil
	}

	if deathCross && ctx.Position().IsSome() && ctx.Position().Unwrap().Side == types.SideLong {
		return types.ExitLong(), nil
	}

	return types.Hold(), nil
}

// smaClose averages the closing prices of the last period bars.
func smaClose(bars []types.Bar, period int) decimal.Decimal {
	sum := decimal.Zero
	for _, bar := range bars[len(bars)-period:] {
		sum = sum.Add(bar.Close)
	}

	return sum.Div(decimal.NewFromInt(int64(period)))
}
