package commission

import (
	"github.com/shopspring/decimal"
	"github.com/tickerlab/stratbench/internal/config"
)

// Flat charges a fixed fee per order regardless of size.
type Flat struct {
	fee decimal.Decimal
}

// NewFlat creates a flat-fee model charging fee per order.
func NewFlat(fee decimal.Decimal) Model {
	return &Flat{fee: fee}
}

// Name implements Model.
func (f *Flat) Name() string {
	return string(config.CommissionFlat)
}

// Calculate implements Model.
func (f *Flat) Calculate(shares int64, price decimal.Decimal) decimal.Decimal {
	return f.fee
}
