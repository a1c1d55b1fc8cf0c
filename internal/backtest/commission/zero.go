package commission

import (
	"github.com/shopspring/decimal"
	"github.com/tickerlab/stratbench/internal/config"
)

// Zero charges nothing. It is the default model.
type Zero struct{}

// NewZero creates a zero-commission model.
func NewZero() Model {
	return &Zero{}
}

// Name implements Model.
func (z *Zero) Name() string {
	return string(config.CommissionNone)
}

// Calculate implements Model.
func (z *Zero) Calculate(shares int64, price decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}
