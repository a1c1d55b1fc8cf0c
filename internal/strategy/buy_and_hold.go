package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tickerlab/stratbench/internal/types"
)

// BuyAndHoldName is the registry name of the buy-and-hold strategy.
const BuyAndHoldName = "buy_and_hold"

// BuyAndHold enters a long position on the first bar and never exits; the
// engine force-closes it after the last bar. It is the reference strategy
// for accounting checks because its expected result is trivial to compute
// by hand.
type BuyAndHold struct {
	sizeFraction decimal.Decimal
}

// NewBuyAndHold creates a buy-and-hold strategy committing all capital.
func NewBuyAndHold() *BuyAndHold {
	return &BuyAndHold{
		sizeFraction: decimal.NewFromInt(1),
	}
}

// Name implements Strategy.
func (s *BuyAndHold) Name() string {
	return BuyAndHoldName
}

// Init implements Strategy. Parameters:
//   - size_fraction: fraction of cash committed on entry, default 1.
func (s *BuyAndHold) Init(params map[string]any) error {
	fraction, err := decimalParam(params, "size_fraction", decimal.NewFromInt(1))
	if err != nil {
		return err
	}

	if !fraction.IsPositive() || fraction.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("size_fraction must be in (0, 1], got %s", fraction)
	}

	s.sizeFraction = fraction

	return nil
}

// Decide implements Strategy.
func (s *BuyAndHold) Decide(ctx Context) (types.Signal, error) {
	if ctx.Index() == 0 && ctx.Position().IsNone() {
		return types.EnterLong(s.sizeFraction), nil
	}

	return types.Hold(), nil
}
