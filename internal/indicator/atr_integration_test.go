package indicator_test

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-replay/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-replay/internal/indicator"
	"github.com/rxtech-lab/argo-replay/internal/logger"
	"github.com/rxtech-lab/argo-replay/internal/types"
	"github.com/rxtech-lab/argo-replay/mocks"
	"github.com/stretchr/testify/suite"
)

// ATRIntegrationTestSuite feeds ATR from bars read back through the file data source.
type ATRIntegrationTestSuite struct {
	suite.Suite
	root string
	bars []types.Bar
}

func TestATRIntegrationSuite(t *testing.T) {
	suite.Run(t, new(ATRIntegrationTestSuite))
}

func (suite *ATRIntegrationTestSuite) SetupSuite() {
	suite.root = suite.T().TempDir()

	config := mocks.DefaultConfig()
	config.Count = 400
	suite.bars = mocks.NewBarGenerator(11).Generate(config)

	csvPath := filepath.Join(suite.root, "CSVUSDT", "CSVUSDT_2025-01.csv")
	suite.Require().NoError(mocks.WriteOHLCVCSV(csvPath, suite.bars))

	// the same bars as parquet, converted by duckdb
	parquetPath := filepath.Join(suite.root, "PQUSDT", "PQUSDT_2025-01.parquet")
	suite.Require().NoError(mocks.WriteOHLCVCSV(filepath.Join(suite.root, "staging.csv"), suite.bars))

	db, err := sql.Open("duckdb", "")
	suite.Require().NoError(err)
	defer db.Close()

	suite.Require().NoError(os.MkdirAll(filepath.Dir(parquetPath), 0755))

	_, err = db.Exec(fmt.Sprintf(
		"COPY (SELECT * FROM read_csv_auto('%s')) TO '%s' (FORMAT PARQUET)",
		filepath.Join(suite.root, "staging.csv"), parquetPath,
	))
	suite.Require().NoError(err)
}

func (suite *ATRIntegrationTestSuite) readBars(symbol string) []types.Bar {
	ds := datasource.NewFileDataSource(suite.root, symbol, logger.NewNopLogger())
	defer ds.Close()

	var bars []types.Bar

	for bar, err := range ds.ReadAll(optional.None[time.Time](), optional.None[time.Time]()) {
		suite.Require().NoError(err)
		bars = append(bars, bar)
	}

	return bars
}

func (suite *ATRIntegrationTestSuite) series(bars []types.Bar) []optional.Option[float64] {
	atr, err := indicator.NewATR(14)
	suite.Require().NoError(err)

	out := make([]optional.Option[float64], 0, len(bars))
	for _, b := range bars {
		out = append(out, atr.Update(b.Open, b.High, b.Low, b.Close))
	}

	return out
}

func (suite *ATRIntegrationTestSuite) TestCSVMatchesGeneratedBars() {
	read := suite.readBars("CSVUSDT")
	suite.Require().Len(read, len(suite.bars))

	expected := suite.series(suite.bars)
	actual := suite.series(read)

	suite.Equal(expected, actual)
	suite.True(actual[0].IsNone())
	suite.Greater(actual[len(actual)-1].Unwrap(), 0.0)
}

func (suite *ATRIntegrationTestSuite) TestParquetMatchesCSV() {
	csvBars := suite.readBars("CSVUSDT")
	parquetBars := suite.readBars("PQUSDT")
	suite.Require().Len(parquetBars, len(csvBars))

	for i, b := range parquetBars {
		suite.True(b.Time.Equal(csvBars[i].Time), "bar %d time", i)
		suite.InDelta(csvBars[i].Close, b.Close, 1e-9)
	}

	csvATR := suite.series(csvBars)
	parquetATR := suite.series(parquetBars)

	for i := range csvATR {
		suite.Equal(csvATR[i].IsSome(), parquetATR[i].IsSome())

		if csvATR[i].IsSome() {
			suite.InDelta(csvATR[i].Unwrap(), parquetATR[i].Unwrap(), 1e-9)
		}
	}
}
