package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side distinguishes the two position directions.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// FillAction describes whether a fill opens or closes a position.
type FillAction string

const (
	FillActionOpen  FillAction = "open"
	FillActionClose FillAction = "close"
)

// Fill is the simulated execution of a signal: the reference price adjusted
// by slippage in the adverse direction for the acting party, an integral
// share count, and the commission charged for the order. A fill with zero
// shares is never produced; the simulator returns no fill instead.
type Fill struct {
	Time       time.Time       `yaml:"time" json:"time" csv:"time"`
	Symbol     string          `yaml:"symbol" json:"symbol" csv:"symbol"`
	Side       Side            `yaml:"side" json:"side" csv:"side"`
	Action     FillAction      `yaml:"action" json:"action" csv:"action"`
	Price      decimal.Decimal `yaml:"price" json:"price" csv:"price"`
	Shares     int64           `yaml:"shares" json:"shares" csv:"shares"`
	Commission decimal.Decimal `yaml:"commission" json:"commission" csv:"commission"`
}

// Notional returns the cash value of the fill before commission.
func (f Fill) Notional() decimal.Decimal {
	return f.Price.Mul(decimal.NewFromInt(f.Shares))
}
