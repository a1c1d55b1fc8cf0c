package metrics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tickerlab/stratbench/internal/types"
)

type MetricsTestSuite struct {
	suite.Suite
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

var metricsEpoch = time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

// dailyCurve spaces the given equities exactly one day apart.
func dailyCurve(equities ...string) []types.EquityPoint {
	curve := make([]types.EquityPoint, len(equities))
	for i, e := range equities {
		curve[i] = types.EquityPoint{
			Time:   metricsEpoch.AddDate(0, 0, i),
			Equity: decimal.RequireFromString(e),
		}
	}

	return curve
}

func tradeWithPnL(pnl string) types.Trade {
	return types.Trade{
		Symbol: "TEST",
		Side:   types.SideLong,
		PnL:    decimal.RequireFromString(pnl),
	}
}

func (suite *MetricsTestSuite) compute(curve []types.EquityPoint, trades []types.Trade) types.Metrics {
	return Compute(decimal.NewFromInt(10000), decimal.Zero, curve, trades)
}

func (suite *MetricsTestSuite) TestEmptyInputsYieldSentinels() {
	m := suite.compute(nil, nil)

	suite.True(m.TotalReturn.IsZero())
	suite.True(m.AnnualizedReturn.IsZero())
	suite.True(m.CAGR.IsZero())
	suite.True(m.WinRate.IsZero())
	suite.True(m.MaxDrawdown.IsZero())
	suite.True(m.AverageWin.IsZero())
	suite.True(m.AverageLoss.IsZero())
	suite.True(m.ProfitFactor.IsNone())
	suite.True(m.SharpeRatio.IsNone())
	suite.Equal(0, m.TotalTrades)
}

func (suite *MetricsTestSuite) TestTradeAggregates() {
	trades := []types.Trade{
		tradeWithPnL("100"),
		tradeWithPnL("300"),
		tradeWithPnL("-200"),
	}

	m := suite.compute(dailyCurve("10000", "10200"), trades)

	suite.Equal(3, m.TotalTrades)
	suite.Equal(2, m.WinningTrades)
	suite.Equal(1, m.LosingTrades)
	suite.True(m.WinRate.Equal(decimal.NewFromInt(2).Div(decimal.NewFromInt(3))), "win rate = %s", m.WinRate)
	suite.True(m.AverageWin.Equal(decimal.NewFromInt(200)))
	suite.True(m.AverageLoss.Equal(decimal.NewFromInt(-200)), "average loss = %s", m.AverageLoss)

	suite.Require().True(m.ProfitFactor.IsSome())
	suite.True(m.ProfitFactor.Unwrap().Equal(decimal.NewFromInt(2)), "profit factor = %s", m.ProfitFactor.Unwrap())
}

func (suite *MetricsTestSuite) TestFlatTradeIsNeitherWinNorLoss() {
	trades := []types.Trade{
		tradeWithPnL("100"),
		tradeWithPnL("0"),
		tradeWithPnL("-50"),
	}

	m := suite.compute(dailyCurve("10000", "10050"), trades)

	suite.Equal(3, m.TotalTrades)
	suite.Equal(1, m.WinningTrades)
	suite.Equal(1, m.LosingTrades)
	suite.True(m.WinRate.Equal(decimal.NewFromInt(1).Div(decimal.NewFromInt(3))))
}

func (suite *MetricsTestSuite) TestProfitFactorUndefinedWithoutLosers() {
	m := suite.compute(dailyCurve("10000", "10500"), []types.Trade{tradeWithPnL("500")})

	suite.True(m.ProfitFactor.IsNone())
}

func (suite *MetricsTestSuite) TestAllLosersHaveZeroProfitFactor() {
	m := suite.compute(dailyCurve("10000", "9500"), []types.Trade{tradeWithPnL("-500")})

	suite.Require().True(m.ProfitFactor.IsSome())
	suite.True(m.ProfitFactor.Unwrap().IsZero())
}

func (suite *MetricsTestSuite) TestTotalReturnFromCurve() {
	m := suite.compute(dailyCurve("10000", "11000", "12000"), nil)

	suite.True(m.TotalReturn.Equal(decimal.RequireFromString("0.2")), "total return = %s", m.TotalReturn)
}

func (suite *MetricsTestSuite) TestAnnualizedReturnOverOneYear() {
	// Exactly 365.25 days apart makes the compounding exponent 1, so the
	// annualized return equals the total return.
	curve := []types.EquityPoint{
		{Time: metricsEpoch, Equity: decimal.NewFromInt(10000)},
		{Time: metricsEpoch.Add(8766 * time.Hour), Equity: decimal.NewFromInt(12000)},
	}

	m := suite.compute(curve, nil)

	suite.InDelta(0.2, m.AnnualizedReturn.InexactFloat64(), 1e-9)
	suite.True(m.CAGR.Equal(m.AnnualizedReturn))
}

func (suite *MetricsTestSuite) TestAnnualizedReturnCompoundsShortWindows() {
	// Half a calendar year at +10% compounds to (1.1)^2 - 1.
	curve := []types.EquityPoint{
		{Time: metricsEpoch, Equity: decimal.NewFromInt(10000)},
		{Time: metricsEpoch.Add(4383 * time.Hour), Equity: decimal.NewFromInt(11000)},
	}

	m := suite.compute(curve, nil)

	suite.InDelta(0.21, m.AnnualizedReturn.InexactFloat64(), 1e-9)
}

func (suite *MetricsTestSuite) TestSinglePointCurveSkipsAnnualization() {
	m := suite.compute(dailyCurve("12000"), nil)

	suite.True(m.TotalReturn.Equal(decimal.RequireFromString("0.2")))
	suite.True(m.AnnualizedReturn.Equal(m.TotalReturn))
}

func (suite *MetricsTestSuite) TestWipedAccountAnnualizesToTotalLoss() {
	m := suite.compute(dailyCurve("10000", "5000", "0"), nil)

	suite.True(m.TotalReturn.Equal(decimal.NewFromInt(-1)))
	suite.True(m.AnnualizedReturn.Equal(decimal.NewFromInt(-1)))
}

func (suite *MetricsTestSuite) TestMaxDrawdownTracksRunningPeak() {
	m := suite.compute(dailyCurve("10000", "12000", "9000", "13000", "9100"), nil)

	// Two declines: 12000 to 9000 is -0.25, 13000 to 9100 is -0.3.
	suite.True(m.MaxDrawdown.Equal(decimal.RequireFromString("-0.3")), "drawdown = %s", m.MaxDrawdown)
}

func (suite *MetricsTestSuite) TestMonotonicCurveHasZeroDrawdown() {
	m := suite.compute(dailyCurve("10000", "10500", "11000"), nil)

	suite.True(m.MaxDrawdown.IsZero())
}

func (suite *MetricsTestSuite) TestDrawdownIsNeverPositive() {
	m := suite.compute(dailyCurve("10000", "9000", "11000", "10500"), nil)

	suite.False(m.MaxDrawdown.IsPositive())
	suite.True(m.MaxDrawdown.Equal(decimal.RequireFromString("-0.1")))
}

func (suite *MetricsTestSuite) TestSharpeUndefinedForConstantReturns() {
	// Identical daily returns have zero variance.
	m := suite.compute(dailyCurve("10000", "11000", "12100"), nil)

	suite.True(m.SharpeRatio.IsNone())
}

func (suite *MetricsTestSuite) TestSharpeUndefinedBelowTwoReturns() {
	m := suite.compute(dailyCurve("10000", "11000"), nil)

	suite.True(m.SharpeRatio.IsNone())
}

func (suite *MetricsTestSuite) TestSharpeAnnualizesDailyExcessReturns() {
	// Daily returns 0.01, 0.02, 0.03: mean 0.02, sample stdev 0.01,
	// Sharpe = 2 * sqrt(252).
	curve := dailyCurve("10000", "10100", "10302", "10611.06")

	m := suite.compute(curve, nil)

	suite.Require().True(m.SharpeRatio.IsSome())
	suite.InDelta(31.749015732775, m.SharpeRatio.Unwrap().InexactFloat64(), 1e-6)
}

func (suite *MetricsTestSuite) TestRiskFreeRateLowersSharpe() {
	curve := dailyCurve("10000", "10100", "10302", "10611.06")

	withoutRf := Compute(decimal.NewFromInt(10000), decimal.Zero, curve, nil)
	withRf := Compute(decimal.NewFromInt(10000), decimal.RequireFromString("0.0252"), curve, nil)

	suite.Require().True(withoutRf.SharpeRatio.IsSome())
	suite.Require().True(withRf.SharpeRatio.IsSome())
	suite.True(withRf.SharpeRatio.Unwrap().LessThan(withoutRf.SharpeRatio.Unwrap()))
	// Annual 0.0252 is 0.0001 daily: mean excess 0.0199 over stdev 0.01.
	suite.InDelta(31.590270654111, withRf.SharpeRatio.Unwrap().InexactFloat64(), 1e-6)
}

func (suite *MetricsTestSuite) TestZeroMeanExcessReturnsZeroSharpe() {
	m := suite.compute(dailyCurve("10000", "11000", "9900"), nil)

	suite.Require().True(m.SharpeRatio.IsSome())
	suite.True(m.SharpeRatio.Unwrap().IsZero(), "sharpe = %s", m.SharpeRatio.Unwrap())
}
