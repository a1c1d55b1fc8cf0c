// Package commission prices the fee charged per simulated order. Models are
// stateless; the execution simulator asks the configured model for the fee
// of every fill and subtracts it from cash, never from shares.
package commission

import (
	"github.com/shopspring/decimal"
	"github.com/tickerlab/stratbench/internal/config"
	"github.com/tickerlab/stratbench/pkg/errors"
)

// Model calculates the commission fee for one order.
type Model interface {
	// Name returns the model identifier used in configuration.
	Name() string
	// Calculate returns the fee in account currency for an order of the
	// given size at the given fill price. The result is never negative.
	Calculate(shares int64, price decimal.Decimal) decimal.Decimal
}

// FromConfig resolves the configured commission model. An unknown model
// name is a config error; config validation normally rejects it first.
func FromConfig(cfg config.Commission) (Model, error) {
	switch cfg.Model {
	case config.CommissionNone, "":
		return NewZero(), nil
	case config.CommissionFlat:
		return NewFlat(cfg.Rate), nil
	case config.CommissionProportional:
		return NewProportional(cfg.Rate), nil
	case config.CommissionPerShare:
		return NewPerShare(cfg.Rate, cfg.Min), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidCommission, "unknown commission model %q", cfg.Model)
	}
}
