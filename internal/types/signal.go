package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/tickerlab/stratbench/pkg/errors"
)

type SignalKind string

const (
	// SignalHold takes no action on this bar
	SignalHold SignalKind = "hold"
	// SignalEnterLong opens a long position sized by SizeFraction
	SignalEnterLong SignalKind = "enter_long"
	// SignalExitLong closes the open long position in full
	SignalExitLong SignalKind = "exit_long"
	// SignalEnterShort opens a short position sized by SizeFraction
	SignalEnterShort SignalKind = "enter_short"
	// SignalExitShort closes the open short position in full
	SignalExitShort SignalKind = "exit_short"
)

// Signal is a strategy decision for one bar.
type Signal struct {
	Kind SignalKind `yaml:"kind" json:"kind" validate:"required,oneof=hold enter_long exit_long enter_short exit_short"`
	// SizeFraction is the fraction of available cash to commit, in (0, 1].
	// Required for entries, ignored for holds and exits.
	SizeFraction decimal.Decimal `yaml:"size_fraction" json:"size_fraction"`
	// StopLoss is an absolute protective price attached to an entry. None disables it.
	StopLoss optional.Option[decimal.Decimal] `yaml:"stop_loss" json:"stop_loss"`
	// TakeProfit is an absolute protective price attached to an entry. None disables it.
	TakeProfit optional.Option[decimal.Decimal] `yaml:"take_profit" json:"take_profit"`
}

// Hold returns the no-action signal.
func Hold() Signal {
	return Signal{Kind: SignalHold}
}

// EnterLong opens a long position committing the given fraction of available cash.
func EnterLong(sizeFraction decimal.Decimal) Signal {
	return Signal{Kind: SignalEnterLong, SizeFraction: sizeFraction}
}

// ExitLong closes the open long position in full.
func ExitLong() Signal {
	return Signal{Kind: SignalExitLong}
}

// EnterShort opens a short position committing the given fraction of available cash.
func EnterShort(sizeFraction decimal.Decimal) Signal {
	return Signal{Kind: SignalEnterShort, SizeFraction: sizeFraction}
}

// ExitShort closes the open short position in full.
func ExitShort() Signal {
	return Signal{Kind: SignalExitShort}
}

// WithStopLoss attaches an absolute stop price to the signal.
func (s Signal) WithStopLoss(price decimal.Decimal) Signal {
	s.StopLoss = optional.Some(price)

	return s
}

// WithTakeProfit attaches an absolute take-profit price to the signal.
func (s Signal) WithTakeProfit(price decimal.Decimal) Signal {
	s.TakeProfit = optional.Some(price)

	return s
}

// IsEntry reports whether the signal opens a position.
func (s Signal) IsEntry() bool {
	return s.Kind == SignalEnterLong || s.Kind == SignalEnterShort
}

// IsExit reports whether the signal closes a position.
func (s Signal) IsExit() bool {
	return s.Kind == SignalExitLong || s.Kind == SignalExitShort
}

// Validate validates the Signal struct.
func (s *Signal) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSignal, "invalid signal", err)
	}

	if s.IsEntry() {
		one := decimal.NewFromInt(1)
		if !s.SizeFraction.IsPositive() || s.SizeFraction.GreaterThan(one) {
			return errors.Newf(errors.ErrCodeInvalidSignal, "size fraction must be in (0, 1], got %s", s.SizeFraction)
		}
	}

	if s.StopLoss.IsSome() && !s.StopLoss.Unwrap().IsPositive() {
		return errors.New(errors.ErrCodeInvalidSignal, "stop loss price must be positive")
	}

	if s.TakeProfit.IsSome() && !s.TakeProfit.Unwrap().IsPositive() {
		return errors.New(errors.ErrCodeInvalidSignal, "take profit price must be positive")
	}

	return nil
}
