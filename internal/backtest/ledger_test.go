package backtest

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tickerlab/stratbench/internal/types"
	"github.com/tickerlab/stratbench/pkg/errors"
)

type LedgerTestSuite struct {
	suite.Suite
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func noProtection() optional.Option[decimal.Decimal] {
	return optional.None[decimal.Decimal]()
}

func openFill(side types.Side, shares int64, price, fee string) types.Fill {
	return types.Fill{
		Time:       time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		Symbol:     "TEST",
		Side:       side,
		Action:     types.FillActionOpen,
		Price:      decimal.RequireFromString(price),
		Shares:     shares,
		Commission: decimal.RequireFromString(fee),
	}
}

func closeFill(side types.Side, shares int64, price, fee string) types.Fill {
	return types.Fill{
		Time:       time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
		Symbol:     "TEST",
		Side:       side,
		Action:     types.FillActionClose,
		Price:      decimal.RequireFromString(price),
		Shares:     shares,
		Commission: decimal.RequireFromString(fee),
	}
}

func (suite *LedgerTestSuite) TestLongOpenDebitsNotionalAndFee() {
	ledger := NewLedger("TEST", decimal.NewFromInt(10000))

	err := ledger.Open(openFill(types.SideLong, 50, "100", "5"), noProtection(), noProtection())
	suite.Require().NoError(err)

	suite.True(ledger.Cash().Equal(decimal.RequireFromString("4995")), "cash = %s", ledger.Cash())
	suite.Require().True(ledger.Position().IsSome())

	pos := ledger.Position().Unwrap()
	suite.Equal(types.SideLong, pos.Side)
	suite.Equal(int64(50), pos.Shares)
	suite.True(pos.AvgEntryPrice.Equal(decimal.NewFromInt(100)))
	suite.True(pos.EntryCommission.Equal(decimal.NewFromInt(5)))
}

func (suite *LedgerTestSuite) TestShortOpenDebitsOnlyFee() {
	ledger := NewLedger("TEST", decimal.NewFromInt(10000))

	err := ledger.Open(openFill(types.SideShort, 100, "100", "3"), noProtection(), noProtection())
	suite.Require().NoError(err)

	// Short proceeds are reserved, not credited.
	suite.True(ledger.Cash().Equal(decimal.RequireFromString("9997")), "cash = %s", ledger.Cash())
}

func (suite *LedgerTestSuite) TestLongRoundTripCredits() {
	ledger := NewLedger("TEST", decimal.NewFromInt(10000))

	suite.Require().NoError(ledger.Open(openFill(types.SideLong, 100, "100", "0"), noProtection(), noProtection()))
	suite.True(ledger.Cash().IsZero())

	transition, err := ledger.Close(closeFill(types.SideLong, 100, "150", "0"))
	suite.Require().NoError(err)

	suite.True(ledger.Cash().Equal(decimal.NewFromInt(15000)), "cash = %s", ledger.Cash())
	suite.True(ledger.Position().IsNone())
	suite.Equal(int64(100), transition.Position.Shares)
	suite.True(transition.Fill.Price.Equal(decimal.NewFromInt(150)))
}

func (suite *LedgerTestSuite) TestShortRoundTripSettlesDifference() {
	ledger := NewLedger("TEST", decimal.NewFromInt(10000))

	suite.Require().NoError(ledger.Open(openFill(types.SideShort, 100, "100", "0"), noProtection(), noProtection()))
	suite.True(ledger.Cash().Equal(decimal.NewFromInt(10000)))

	// Cover at 90: cash += (100 - 90) * 100.
	_, err := ledger.Close(closeFill(types.SideShort, 100, "90", "0"))
	suite.Require().NoError(err)

	suite.True(ledger.Cash().Equal(decimal.NewFromInt(11000)), "cash = %s", ledger.Cash())
}

func (suite *LedgerTestSuite) TestShortLossCanExceedReserve() {
	ledger := NewLedger("TEST", decimal.NewFromInt(10000))

	suite.Require().NoError(ledger.Open(openFill(types.SideShort, 100, "100", "0"), noProtection(), noProtection()))

	// Cover at 130: cash += (100 - 130) * 100.
	_, err := ledger.Close(closeFill(types.SideShort, 100, "130", "0"))
	suite.Require().NoError(err)

	suite.True(ledger.Cash().Equal(decimal.NewFromInt(7000)), "cash = %s", ledger.Cash())
}

func (suite *LedgerTestSuite) TestOpenWhileOpenViolatesInvariant() {
	ledger := NewLedger("TEST", decimal.NewFromInt(10000))

	suite.Require().NoError(ledger.Open(openFill(types.SideLong, 10, "100", "0"), noProtection(), noProtection()))

	err := ledger.Open(openFill(types.SideLong, 10, "100", "0"), noProtection(), noProtection())
	suite.Require().Error(err)
	suite.True(errors.IsInvariantError(err))
}

func (suite *LedgerTestSuite) TestCloseWhileFlatViolatesInvariant() {
	ledger := NewLedger("TEST", decimal.NewFromInt(10000))

	_, err := ledger.Close(closeFill(types.SideLong, 10, "100", "0"))
	suite.Require().Error(err)
	suite.True(errors.IsInvariantError(err))
}

func (suite *LedgerTestSuite) TestPartialCloseViolatesInvariant() {
	ledger := NewLedger("TEST", decimal.NewFromInt(10000))

	suite.Require().NoError(ledger.Open(openFill(types.SideLong, 100, "100", "0"), noProtection(), noProtection()))

	_, err := ledger.Close(closeFill(types.SideLong, 40, "100", "0"))
	suite.Require().Error(err)
	suite.True(errors.IsInvariantError(err))
}

func (suite *LedgerTestSuite) TestOverdrawingOpenViolatesInvariant() {
	ledger := NewLedger("TEST", decimal.NewFromInt(100))

	err := ledger.Open(openFill(types.SideLong, 100, "100", "0"), noProtection(), noProtection())
	suite.Require().Error(err)
	suite.True(errors.IsInvariantError(err))
	// A rejected open leaves the ledger untouched.
	suite.True(ledger.Cash().Equal(decimal.NewFromInt(100)))
	suite.True(ledger.Position().IsNone())
}

func (suite *LedgerTestSuite) TestMarkToMarketLong() {
	ledger := NewLedger("TEST", decimal.NewFromInt(10000))
	suite.Require().NoError(ledger.Open(openFill(types.SideLong, 100, "100", "0"), noProtection(), noProtection()))

	point := ledger.MarkToMarket(types.Bar{
		Time:  time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		Close: decimal.NewFromInt(110),
	})

	// Cash 0 plus 100 shares at 110.
	suite.True(point.Equity.Equal(decimal.NewFromInt(11000)), "equity = %s", point.Equity)
	suite.Len(ledger.Curve(), 1)
}

func (suite *LedgerTestSuite) TestMarkToMarketShort() {
	ledger := NewLedger("TEST", decimal.NewFromInt(10000))
	suite.Require().NoError(ledger.Open(openFill(types.SideShort, 100, "100", "0"), noProtection(), noProtection()))

	// Price moved against the short: unrealized (100 - 110) * 100.
	point := ledger.MarkToMarket(types.Bar{
		Time:  time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		Close: decimal.NewFromInt(110),
	})

	suite.True(point.Equity.Equal(decimal.NewFromInt(9000)), "equity = %s", point.Equity)
}

func (suite *LedgerTestSuite) TestRestateLastEquityAfterForcedClose() {
	ledger := NewLedger("TEST", decimal.NewFromInt(10000))
	suite.Require().NoError(ledger.Open(openFill(types.SideLong, 100, "100", "0"), noProtection(), noProtection()))

	ledger.MarkToMarket(types.Bar{
		Time:  time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		Close: decimal.NewFromInt(150),
	})

	_, err := ledger.Close(closeFill(types.SideLong, 100, "150", "10"))
	suite.Require().NoError(err)

	ledger.RestateLastEquity()

	curve := ledger.Curve()
	suite.Require().Len(curve, 1)
	// The last point now reflects the post-close cash, fee included.
	suite.True(curve[0].Equity.Equal(decimal.NewFromInt(14990)), "equity = %s", curve[0].Equity)
}

func (suite *LedgerTestSuite) TestProtectivePricesCarriedOntoPosition() {
	ledger := NewLedger("TEST", decimal.NewFromInt(10000))

	stop := optional.Some(decimal.NewFromInt(90))
	take := optional.Some(decimal.NewFromInt(120))
	suite.Require().NoError(ledger.Open(openFill(types.SideLong, 10, "100", "0"), stop, take))

	pos := ledger.Position().Unwrap()
	suite.Require().True(pos.StopLoss.IsSome())
	suite.True(pos.StopLoss.Unwrap().Equal(decimal.NewFromInt(90)))
	suite.Require().True(pos.TakeProfit.IsSome())
	suite.True(pos.TakeProfit.Unwrap().Equal(decimal.NewFromInt(120)))
}
