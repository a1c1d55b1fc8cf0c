package commission

import (
	"github.com/shopspring/decimal"
	"github.com/tickerlab/stratbench/internal/config"
)

// Proportional charges a fraction of the order's notional value.
type Proportional struct {
	rate decimal.Decimal
}

// NewProportional creates a proportional model charging rate x notional.
func NewProportional(rate decimal.Decimal) Model {
	return &Proportional{rate: rate}
}

// Name implements Model.
func (p *Proportional) Name() string {
	return string(config.CommissionProportional)
}

// Calculate implements Model.
func (p *Proportional) Calculate(shares int64, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(shares)).Mul(p.rate)
}
