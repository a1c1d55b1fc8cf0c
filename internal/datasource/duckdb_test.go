package datasource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tickerlab/stratbench/internal/logger"
	"github.com/tickerlab/stratbench/pkg/errors"
)

type DuckDBLoaderTestSuite struct {
	suite.Suite
	loader  *DuckDBLoader
	csvPath string
}

func TestDuckDBLoaderSuite(t *testing.T) {
	suite.Run(t, new(DuckDBLoaderTestSuite))
}

const fixtureCSV = `time,open,high,low,close,volume
2024-01-08T00:00:00Z,100,105,99,102.5,1000
2024-01-09T00:00:00Z,102.5,110,101,108,1500
2024-01-10T00:00:00Z,108,112,107,111.25,900
2024-01-11T00:00:00Z,111.25,113,105,106,2000
`

func (suite *DuckDBLoaderTestSuite) SetupTest() {
	suite.loader = NewDuckDBLoader(logger.NewNopLogger())

	suite.csvPath = filepath.Join(suite.T().TempDir(), "TEST.csv")
	suite.Require().NoError(os.WriteFile(suite.csvPath, []byte(fixtureCSV), 0o600))
}

func (suite *DuckDBLoaderTestSuite) noBound() optional.Option[time.Time] {
	return optional.None[time.Time]()
}

func (suite *DuckDBLoaderTestSuite) TestLoadReadsAllBarsInOrder() {
	series, err := suite.loader.Load(context.Background(), suite.csvPath, "TEST", suite.noBound(), suite.noBound())
	suite.Require().NoError(err)

	suite.Equal("TEST", series.Symbol)
	suite.Require().Len(series.Bars, 4)

	first := series.Bars[0]
	suite.Equal(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), first.Time)
	suite.True(first.Open.Equal(decimal.NewFromInt(100)))
	suite.True(first.High.Equal(decimal.NewFromInt(105)))
	suite.True(first.Low.Equal(decimal.NewFromInt(99)))
	suite.True(first.Close.Equal(decimal.RequireFromString("102.5")), "close = %s", first.Close)
	suite.Equal(int64(1000), first.Volume)

	for i := 1; i < len(series.Bars); i++ {
		suite.True(series.Bars[i-1].Time.Before(series.Bars[i].Time))
	}
}

func (suite *DuckDBLoaderTestSuite) TestFractionalPricesStayExact() {
	series, err := suite.loader.Load(context.Background(), suite.csvPath, "TEST", suite.noBound(), suite.noBound())
	suite.Require().NoError(err)

	// 111.25 must survive the DOUBLE column without binary residue.
	suite.True(series.Bars[2].Close.Equal(decimal.RequireFromString("111.25")),
		"close = %s", series.Bars[2].Close)
}

func (suite *DuckDBLoaderTestSuite) TestLoadHonorsBounds() {
	start := optional.Some(time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC))
	end := optional.Some(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	series, err := suite.loader.Load(context.Background(), suite.csvPath, "TEST", start, end)
	suite.Require().NoError(err)

	suite.Require().Len(series.Bars, 2)
	suite.Equal(time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), series.Bars[0].Time)
	suite.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), series.Bars[1].Time)
}

func (suite *DuckDBLoaderTestSuite) TestEmptyWindowIsADataError() {
	start := optional.Some(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := suite.loader.Load(context.Background(), suite.csvPath, "TEST", start, suite.noBound())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptySeries))
}

func (suite *DuckDBLoaderTestSuite) TestMissingFileFailsToLoad() {
	_, err := suite.loader.Load(context.Background(),
		filepath.Join(suite.T().TempDir(), "missing.csv"), "TEST", suite.noBound(), suite.noBound())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataLoadFailed))
}

func (suite *DuckDBLoaderTestSuite) TestUnsupportedExtensionRejected() {
	_, err := suite.loader.Load(context.Background(), "bars.xlsx", "TEST", suite.noBound(), suite.noBound())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataLoadFailed))
}

func (suite *DuckDBLoaderTestSuite) TestCount() {
	count, err := suite.loader.Count(context.Background(), suite.csvPath)
	suite.Require().NoError(err)
	suite.Equal(4, count)
}
