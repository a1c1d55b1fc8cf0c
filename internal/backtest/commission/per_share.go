package commission

import (
	"github.com/shopspring/decimal"
	"github.com/tickerlab/stratbench/internal/config"
)

// PerShare charges a rate per share with a per-order minimum, the pricing
// shape retail brokers like Interactive Brokers use (0.005/share, 1.00 min).
type PerShare struct {
	rate decimal.Decimal
	min  decimal.Decimal
}

// NewPerShare creates a per-share model.
func NewPerShare(rate, min decimal.Decimal) Model {
	return &PerShare{rate: rate, min: min}
}

// Name implements Model.
func (p *PerShare) Name() string {
	return string(config.CommissionPerShare)
}

// Calculate implements Model.
func (p *PerShare) Calculate(shares int64, price decimal.Decimal) decimal.Decimal {
	fee := p.rate.Mul(decimal.NewFromInt(shares))
	if fee.LessThan(p.min) {
		return p.min
	}

	return fee
}
