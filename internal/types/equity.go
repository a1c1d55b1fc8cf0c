package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// EquityPoint is one mark-to-market observation of account value: cash plus
// open position value at the bar close. The engine appends exactly one point
// per processed bar, fill or no fill.
type EquityPoint struct {
	Time   time.Time       `yaml:"time" json:"time" csv:"time"`
	Equity decimal.Decimal `yaml:"equity" json:"equity" csv:"equity"`
}
