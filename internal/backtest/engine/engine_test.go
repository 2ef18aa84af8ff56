package engine

import (
	"testing"

	"github.com/rxtech-lab/argo-replay/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-replay/internal/indicator"
	"github.com/rxtech-lab/argo-replay/internal/logger"
	"github.com/rxtech-lab/argo-replay/internal/strategy"
	"github.com/stretchr/testify/suite"
)

type EngineTestSuite struct {
	suite.Suite
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) TestOnProcessDataCallbackWithProgress() {
	var progress []int
	callback := OnProcessDataCallback(func(key string, current int) error {
		suite.Equal("BTCUSDT", key)
		progress = append(progress, current)

		return nil
	})

	for i := 1; i <= 5; i++ {
		err := callback("BTCUSDT", i)
		suite.NoError(err)
	}

	suite.Equal([]int{1, 2, 3, 4, 5}, progress)
}

func (suite *EngineTestSuite) TestComponentsMergeKeepsOverrides() {
	defaultCalls := 0
	customCalls := 0

	defaults := Components{
		NewVolatilityEstimator: func(period int) (indicator.VolatilityEstimator, error) {
			defaultCalls++

			return indicator.NewATR(period)
		},
		NewRegimeClassifier: func(nShort, nLong int) (strategy.RegimeClassifier, error) {
			defaultCalls++

			return strategy.NewSlopeRegime(nShort, nLong)
		},
		NewDataSource: func(root, symbol string, log *logger.Logger) datasource.DataSource {
			return datasource.NewFileDataSource(root, symbol, log)
		},
	}

	custom := Components{
		NewRegimeClassifier: func(nShort, nLong int) (strategy.RegimeClassifier, error) {
			customCalls++

			return strategy.NewSlopeRegime(nShort, nLong)
		},
	}

	merged := custom.Merge(defaults)
	suite.NotNil(merged.NewDataSource)
	suite.Nil(merged.NewTradeManager)

	_, err := merged.NewVolatilityEstimator(14)
	suite.Require().NoError(err)

	_, err = merged.NewRegimeClassifier(2, 4)
	suite.Require().NoError(err)

	suite.Equal(1, defaultCalls)
	suite.Equal(1, customCalls)
}
