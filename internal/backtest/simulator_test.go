package backtest

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tickerlab/stratbench/internal/backtest/commission"
	"github.com/tickerlab/stratbench/internal/types"
)

type SimulatorTestSuite struct {
	suite.Suite
}

func TestSimulatorSuite(t *testing.T) {
	suite.Run(t, new(SimulatorTestSuite))
}

func testBar(close string) types.Bar {
	c := decimal.RequireFromString(close)

	return types.Bar{
		Time:   time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		Open:   c,
		High:   c,
		Low:    c,
		Close:  c,
		Volume: 1000,
	}
}

func noPosition() optional.Option[types.Position] {
	return optional.None[types.Position]()
}

func longPosition(shares int64, entry string) optional.Option[types.Position] {
	return optional.Some(types.Position{
		Symbol:        "TEST",
		Side:          types.SideLong,
		Shares:        shares,
		AvgEntryPrice: decimal.RequireFromString(entry),
		EntryTime:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	})
}

func (suite *SimulatorTestSuite) TestHoldNeverFills() {
	sim := NewSimulator(decimal.Zero, commission.NewZero())

	fill := sim.Fill("TEST", types.Hold(), testBar("100"), noPosition(), decimal.NewFromInt(10000))
	suite.True(fill.IsNone())
}

func (suite *SimulatorTestSuite) TestLongEntrySizing() {
	tests := []struct {
		name           string
		cash           string
		fraction       string
		close          string
		slippage       string
		expectedShares int64
		expectedPrice  string
	}{
		{
			name: "full size no slippage",
			cash: "10000", fraction: "1", close: "100", slippage: "0",
			expectedShares: 100, expectedPrice: "100",
		},
		{
			name: "half size",
			cash: "10000", fraction: "0.5", close: "100", slippage: "0",
			expectedShares: 50, expectedPrice: "100",
		},
		{
			name: "buyer pays up under slippage",
			cash: "10100", fraction: "1", close: "100", slippage: "0.01",
			expectedShares: 100, expectedPrice: "101",
		},
		{
			name: "fractional share count floors",
			cash: "1050", fraction: "1", close: "100", slippage: "0",
			expectedShares: 10, expectedPrice: "100",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			sim := NewSimulator(decimal.RequireFromString(tt.slippage), commission.NewZero())

			fill := sim.Fill("TEST", types.EnterLong(decimal.RequireFromString(tt.fraction)),
				testBar(tt.close), noPosition(), decimal.RequireFromString(tt.cash))

			suite.Require().True(fill.IsSome())
			f := fill.Unwrap()
			suite.Equal(types.SideLong, f.Side)
			suite.Equal(types.FillActionOpen, f.Action)
			suite.Equal(tt.expectedShares, f.Shares)
			suite.True(f.Price.Equal(decimal.RequireFromString(tt.expectedPrice)), "price = %s", f.Price)
			suite.Equal("TEST", f.Symbol)
		})
	}
}

func (suite *SimulatorTestSuite) TestShortEntryReceivesLess() {
	sim := NewSimulator(decimal.RequireFromString("0.01"), commission.NewZero())

	fill := sim.Fill("TEST", types.EnterShort(decimal.NewFromInt(1)),
		testBar("100"), noPosition(), decimal.NewFromInt(9900))

	suite.Require().True(fill.IsSome())
	f := fill.Unwrap()
	suite.Equal(types.SideShort, f.Side)
	// Short entry is a sale: 100 * (1 - 0.01).
	suite.True(f.Price.Equal(decimal.NewFromInt(99)), "price = %s", f.Price)
	suite.Equal(int64(100), f.Shares)
}

func (suite *SimulatorTestSuite) TestUnaffordableEntryIsNoOp() {
	sim := NewSimulator(decimal.Zero, commission.NewZero())

	fill := sim.Fill("TEST", types.EnterLong(decimal.NewFromInt(1)),
		testBar("100"), noPosition(), decimal.NewFromInt(99))

	suite.True(fill.IsNone())
}

func (suite *SimulatorTestSuite) TestOverdrawByCommissionRejected() {
	// 100 shares at 100 consume all cash; the flat fee cannot be paid.
	sim := NewSimulator(decimal.Zero, commission.NewFlat(decimal.NewFromInt(5)))

	fill := sim.Fill("TEST", types.EnterLong(decimal.NewFromInt(1)),
		testBar("100"), noPosition(), decimal.NewFromInt(10000))

	suite.True(fill.IsNone())
}

func (suite *SimulatorTestSuite) TestAffordableWithCommission() {
	// Committing half leaves room for the fee.
	sim := NewSimulator(decimal.Zero, commission.NewFlat(decimal.NewFromInt(5)))

	fill := sim.Fill("TEST", types.EnterLong(decimal.RequireFromString("0.5")),
		testBar("100"), noPosition(), decimal.NewFromInt(10000))

	suite.Require().True(fill.IsSome())
	suite.Equal(int64(50), fill.Unwrap().Shares)
	suite.True(fill.Unwrap().Commission.Equal(decimal.NewFromInt(5)))
}

func (suite *SimulatorTestSuite) TestEntryWhilePositionOpenIsNoOp() {
	sim := NewSimulator(decimal.Zero, commission.NewZero())

	fill := sim.Fill("TEST", types.EnterLong(decimal.NewFromInt(1)),
		testBar("100"), longPosition(10, "90"), decimal.NewFromInt(10000))

	suite.True(fill.IsNone())
}

func (suite *SimulatorTestSuite) TestExitLong() {
	sim := NewSimulator(decimal.RequireFromString("0.01"), commission.NewZero())

	fill := sim.Fill("TEST", types.ExitLong(), testBar("150"), longPosition(100, "100"), decimal.Zero)

	suite.Require().True(fill.IsSome())
	f := fill.Unwrap()
	suite.Equal(types.FillActionClose, f.Action)
	// Seller receives less: 150 * (1 - 0.01).
	suite.True(f.Price.Equal(decimal.RequireFromString("148.5")), "price = %s", f.Price)
	suite.Equal(int64(100), f.Shares)
}

func (suite *SimulatorTestSuite) TestExitSideMismatchIsNoOp() {
	sim := NewSimulator(decimal.Zero, commission.NewZero())

	fill := sim.Fill("TEST", types.ExitShort(), testBar("100"), longPosition(100, "100"), decimal.Zero)
	suite.True(fill.IsNone())

	fill = sim.Fill("TEST", types.ExitLong(), testBar("100"), noPosition(), decimal.NewFromInt(10000))
	suite.True(fill.IsNone())
}

func (suite *SimulatorTestSuite) TestForceCloseAppliesSlippageAndCommission() {
	sim := NewSimulator(decimal.RequireFromString("0.01"), commission.NewFlat(decimal.NewFromInt(2)))

	pos := longPosition(100, "100").Unwrap()
	at := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	fill := sim.ForceClose(pos, at, decimal.NewFromInt(90))

	suite.Equal(types.FillActionClose, fill.Action)
	suite.Equal(at, fill.Time)
	suite.True(fill.Price.Equal(decimal.RequireFromString("89.1")), "price = %s", fill.Price)
	suite.True(fill.Commission.Equal(decimal.NewFromInt(2)))
	suite.Equal(int64(100), fill.Shares)
}

func (suite *SimulatorTestSuite) TestShortCloseIsABuy() {
	sim := NewSimulator(decimal.RequireFromString("0.01"), commission.NewZero())

	pos := types.Position{
		Symbol:        "TEST",
		Side:          types.SideShort,
		Shares:        100,
		AvgEntryPrice: decimal.NewFromInt(100),
	}

	fill := sim.ForceClose(pos, time.Now(), decimal.NewFromInt(90))

	// Covering a short buys: 90 * (1 + 0.01).
	suite.True(fill.Price.Equal(decimal.RequireFromString("90.9")), "price = %s", fill.Price)
}
