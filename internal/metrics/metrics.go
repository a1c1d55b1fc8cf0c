// Package metrics computes the aggregate performance snapshot of a finished
// run from its equity curve and trade list. Monetary sums stay exact
// decimals end to end; statistical internals (annualization exponents,
// standard deviations) run in float64 and convert back for the snapshot.
//
// The calculator never fails: degenerate inputs (no trades, a single equity
// point, zero variance) produce the documented sentinel values instead.
package metrics

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/tickerlab/stratbench/internal/types"
)

// tradingDaysPerYear annualizes daily return statistics.
const tradingDaysPerYear = 252

// calendarDaysPerYear annualizes the compound growth exponent.
const calendarDaysPerYear = 365.25

// Compute derives the metrics snapshot for one run over the full backtest
// window. riskFreeRate is annual; it feeds the Sharpe ratio's daily excess
// returns.
func Compute(
	initialCapital, riskFreeRate decimal.Decimal,
	curve []types.EquityPoint,
	trades []types.Trade,
) types.Metrics {
	m := types.Metrics{
		ProfitFactor: optional.None[decimal.Decimal](),
		SharpeRatio:  optional.None[decimal.Decimal](),
	}

	m.TotalTrades = len(trades)

	var winPnL, lossPnL decimal.Decimal

	for _, trade := range trades {
		switch {
		case trade.IsWin():
			m.WinningTrades++
			winPnL = winPnL.Add(trade.PnL)
		case trade.IsLoss():
			m.LosingTrades++
			lossPnL = lossPnL.Add(trade.PnL)
		}
	}

	if m.TotalTrades > 0 {
		m.WinRate = decimal.NewFromInt(int64(m.WinningTrades)).
			Div(decimal.NewFromInt(int64(m.TotalTrades)))
	}

	if m.WinningTrades > 0 {
		m.AverageWin = winPnL.Div(decimal.NewFromInt(int64(m.WinningTrades)))
	}

	// AverageLoss keeps the sign of the losing trades: a mean loss is a
	// negative amount.
	if m.LosingTrades > 0 {
		m.AverageLoss = lossPnL.Div(decimal.NewFromInt(int64(m.LosingTrades)))
	}

	// No losing trades leaves the profit factor undefined, not infinite.
	if m.LosingTrades > 0 {
		m.ProfitFactor = optional.Some(winPnL.Div(lossPnL.Abs()))
	}

	if len(curve) > 0 && initialCapital.IsPositive() {
		finalEquity := curve[len(curve)-1].Equity
		m.TotalReturn = finalEquity.Sub(initialCapital).Div(initialCapital)
	}

	m.AnnualizedReturn = annualize(m.TotalReturn, curve)
	// A single continuous holding window makes CAGR and the annualized
	// return the same formula; both fields carry the value by design.
	m.CAGR = m.AnnualizedReturn

	m.MaxDrawdown = maxDrawdown(curve)

	if sharpe, ok := sharpeRatio(curve, riskFreeRate); ok {
		m.SharpeRatio = optional.Some(sharpe)
	}

	return m
}

// annualize compounds the total return over the window's calendar length:
// (1 + r)^(365.25/days) - 1. Windows shorter than a day report the raw
// total return; a fully wiped account reports -1.
func annualize(totalReturn decimal.Decimal, curve []types.EquityPoint) decimal.Decimal {
	if len(curve) < 2 {
		return totalReturn
	}

	elapsedDays := curve[len(curve)-1].Time.Sub(curve[0].Time).Hours() / 24
	if elapsedDays <= 0 {
		return totalReturn
	}

	base, _ := totalReturn.Add(decimal.NewFromInt(1)).Float64()
	if base <= 0 {
		return decimal.NewFromInt(-1)
	}

	annualized := math.Pow(base, calendarDaysPerYear/elapsedDays) - 1

	return decimal.NewFromFloat(annualized)
}

// maxDrawdown is the deepest peak-to-trough decline as a fraction of the
// running peak: zero or negative by construction.
func maxDrawdown(curve []types.EquityPoint) decimal.Decimal {
	if len(curve) == 0 {
		return decimal.Zero
	}

	worst := decimal.Zero
	peak := curve[0].Equity

	for _, point := range curve {
		if point.Equity.GreaterThan(peak) {
			peak = point.Equity
		}

		if !peak.IsPositive() {
			continue
		}

		dd := point.Equity.Sub(peak).Div(peak)
		if dd.LessThan(worst) {
			worst = dd
		}
	}

	return worst
}

// sharpeRatio annualizes mean daily excess return over its sample standard
// deviation. It reports false when fewer than two returns exist or the
// variance is zero, leaving the ratio undefined.
func sharpeRatio(curve []types.EquityPoint, riskFreeRate decimal.Decimal) (decimal.Decimal, bool) {
	returns := dailyReturns(curve)
	if len(returns) < 2 {
		return decimal.Zero, false
	}

	rf, _ := riskFreeRate.Float64()
	dailyRf := rf / tradingDaysPerYear

	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - dailyRf
	}

	sd := stdDev(excess)
	if sd == 0 {
		return decimal.Zero, false
	}

	sharpe := mean(excess) / sd * math.Sqrt(tradingDaysPerYear)

	return decimal.NewFromFloat(sharpe), true
}

// dailyReturns converts consecutive equity points into simple returns.
func dailyReturns(curve []types.EquityPoint) []float64 {
	if len(curve) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(curve)-1)

	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev.IsZero() {
			continue
		}

		r, _ := curve[i].Equity.Sub(prev).Div(prev).Float64()
		returns = append(returns, r)
	}

	return returns
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// stdDev is the sample standard deviation (n-1 denominator).
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	m := mean(values)

	var sum float64

	for _, v := range values {
		d := v - m
		sum += d * d
	}

	return math.Sqrt(sum / float64(len(values)-1))
}
