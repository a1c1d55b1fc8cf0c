// Package quality scans a bar series for data defects before simulation.
// Fatal defects (empty series, broken ordering, non-positive prices) abort
// the run; everything else is reported as warnings and the simulation
// proceeds. The scan never mutates the series.
package quality

import (
	"fmt"
	"sort"
	"time"

	"github.com/tickerlab/stratbench/internal/types"
	"github.com/tickerlab/stratbench/pkg/errors"
)

// cadenceSampleSize bounds how many leading intervals feed the median
// cadence estimate.
const cadenceSampleSize = 16

// maxMissingTradingDays is the largest run of missing weekdays between
// consecutive daily bars that passes without a warning. A Friday to Monday
// step misses zero trading days; holidays cover the small values.
const maxMissingTradingDays = 3

// intradayGapMultiple flags an intraday interval this many times larger
// than the series' median interval.
const intradayGapMultiple = 3

// Validator checks a bar series for quality defects.
type Validator struct{}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate scans the series once and returns human-readable warnings for
// recoverable defects. Fatal defects return a data error and no warnings:
// the caller must not simulate over a series that fails the scan.
func (v *Validator) Validate(series types.BarSeries) ([]string, error) {
	if len(series.Bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeEmptySeries, "bar series for %s is empty", series.Symbol)
	}

	for i, bar := range series.Bars {
		if !bar.Open.IsPositive() || !bar.High.IsPositive() || !bar.Low.IsPositive() || !bar.Close.IsPositive() {
			return nil, errors.Newf(errors.ErrCodeNonPositivePrice,
				"bar %d (%s) has a non-positive price", i, bar.Time.Format(time.RFC3339))
		}

		if i > 0 && !series.Bars[i-1].Time.Before(bar.Time) {
			return nil, errors.Newf(errors.ErrCodeNonMonotonicSeries,
				"bar %d (%s) does not advance past bar %d (%s)",
				i, bar.Time.Format(time.RFC3339), i-1, series.Bars[i-1].Time.Format(time.RFC3339))
		}
	}

	var warnings []string

	warnings = append(warnings, v.checkGaps(series.Bars)...)
	warnings = append(warnings, v.checkOHLC(series.Bars)...)
	warnings = append(warnings, v.checkVolume(series.Bars)...)

	return warnings, nil
}

// checkGaps estimates the series cadence from the median of the leading
// intervals and flags stretches of missing data. Daily and slower series
// count missing weekdays so weekends never trip the check; intraday series
// compare each interval against a multiple of the median.
func (v *Validator) checkGaps(bars []types.Bar) []string {
	if len(bars) < 2 {
		return nil
	}

	cadence := medianInterval(bars)
	daily := cadence >= 24*time.Hour

	var warnings []string

	for i := 1; i < len(bars); i++ {
		prev, curr := bars[i-1], bars[i]

		if daily {
			missing := weekdaysBetween(prev.Time, curr.Time)
			if missing > maxMissingTradingDays {
				warnings = append(warnings, fmt.Sprintf(
					"gap of %d missing trading days between %s and %s",
					missing, prev.Time.Format(time.DateOnly), curr.Time.Format(time.DateOnly)))
			}

			continue
		}

		if interval := curr.Time.Sub(prev.Time); interval > intradayGapMultiple*cadence {
			warnings = append(warnings, fmt.Sprintf(
				"gap of %s between %s and %s exceeds %dx the expected %s interval",
				interval, prev.Time.Format(time.RFC3339), curr.Time.Format(time.RFC3339),
				intradayGapMultiple, cadence))
		}
	}

	return warnings
}

// checkOHLC flags bars whose prices contradict each other. These bars stay
// in the series; the engine marks to market at the close regardless.
func (v *Validator) checkOHLC(bars []types.Bar) []string {
	var warnings []string

	for i, bar := range bars {
		switch {
		case bar.High.LessThan(bar.Low):
			warnings = append(warnings, fmt.Sprintf(
				"bar %d (%s) has high %s below low %s",
				i, bar.Time.Format(time.DateOnly), bar.High, bar.Low))
		case bar.Close.LessThan(bar.Low) || bar.Close.GreaterThan(bar.High):
			warnings = append(warnings, fmt.Sprintf(
				"bar %d (%s) closes at %s outside its range [%s, %s]",
				i, bar.Time.Format(time.DateOnly), bar.Close, bar.Low, bar.High))
		case bar.Open.LessThan(bar.Low) || bar.Open.GreaterThan(bar.High):
			warnings = append(warnings, fmt.Sprintf(
				"bar %d (%s) opens at %s outside its range [%s, %s]",
				i, bar.Time.Format(time.DateOnly), bar.Open, bar.Low, bar.High))
		}
	}

	return warnings
}

func (v *Validator) checkVolume(bars []types.Bar) []string {
	var warnings []string

	for i, bar := range bars {
		if bar.Volume == 0 {
			warnings = append(warnings, fmt.Sprintf(
				"bar %d (%s) has zero volume", i, bar.Time.Format(time.DateOnly)))
		}
	}

	return warnings
}

// medianInterval returns the median of the first cadenceSampleSize
// consecutive bar intervals.
func medianInterval(bars []types.Bar) time.Duration {
	n := len(bars) - 1
	if n > cadenceSampleSize {
		n = cadenceSampleSize
	}

	intervals := make([]time.Duration, 0, n)
	for i := 1; i <= n; i++ {
		intervals = append(intervals, bars[i].Time.Sub(bars[i-1].Time))
	}

	sort.Slice(intervals, func(i, j int) bool { return intervals[i] < intervals[j] })

	return intervals[len(intervals)/2]
}

// weekdaysBetween counts Monday-Friday dates strictly between two bar times.
func weekdaysBetween(a, b time.Time) int {
	count := 0

	day := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	last := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)

	for day.Before(last) {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}

		day = day.AddDate(0, 0, 1)
	}

	return count
}
