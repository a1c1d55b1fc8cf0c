package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is a single OHLCV observation for a fixed time interval. Bars are
// immutable once ingested; the engine never mutates a series it was handed.
type Bar struct {
	Time   time.Time       `yaml:"time" json:"time" csv:"time"`
	Open   decimal.Decimal `yaml:"open" json:"open" csv:"open"`
	High   decimal.Decimal `yaml:"high" json:"high" csv:"high"`
	Low    decimal.Decimal `yaml:"low" json:"low" csv:"low"`
	Close  decimal.Decimal `yaml:"close" json:"close" csv:"close"`
	Volume int64           `yaml:"volume" json:"volume" csv:"volume"`
}

// BarSeries is a time-ordered sequence of bars for a single symbol. A series
// is read-only for the duration of a run and may be shared by reference
// across parallel runs.
type BarSeries struct {
	Symbol string `yaml:"symbol" json:"symbol"`
	Bars   []Bar  `yaml:"bars" json:"bars"`
}

// Len returns the number of bars in the series.
func (s BarSeries) Len() int {
	return len(s.Bars)
}

// Last returns the final bar. Callers must ensure the series is non-empty.
func (s BarSeries) Last() Bar {
	return s.Bars[len(s.Bars)-1]
}
