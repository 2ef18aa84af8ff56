package engine

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-replay/internal/trading"
	"github.com/rxtech-lab/argo-replay/internal/types"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// BacktestTradingTestSuite is a test suite for BacktestTrading
type BacktestTradingTestSuite struct {
	suite.Suite
	trading *BacktestTrading
	t0      time.Time
}

// TestBacktestTradingTestSuite runs the test suite
func TestBacktestTradingTestSuite(t *testing.T) {
	suite.Run(t, new(BacktestTradingTestSuite))
}

// SetupTest runs before each test
func (suite *BacktestTradingTestSuite) SetupTest() {
	suite.trading = NewBacktestTrading("BTCUSDT", trading.ExitParams{
		SLMult:            10,
		TPMult:            20,
		BreakevenProgress: 0.5,
		TrailingStepMult:  2,
	})
	suite.t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *BacktestTradingTestSuite) at(minutes int) time.Time {
	return suite.t0.Add(time.Duration(minutes) * time.Minute)
}

func (suite *BacktestTradingTestSuite) openLong() *types.Trade {
	trade, err := suite.trading.Open(suite.t0, types.PositionTypeLong, 100, 2, 1)
	suite.Require().NoError(err)

	return trade
}

func (suite *BacktestTradingTestSuite) openShort() *types.Trade {
	trade, err := suite.trading.Open(suite.t0, types.PositionTypeShort, 100, 2, 1)
	suite.Require().NoError(err)

	return trade
}

func (suite *BacktestTradingTestSuite) TestOpenLong() {
	trade := suite.openLong()

	suite.Equal("BTCUSDT", trade.Symbol)
	suite.Equal(types.PositionTypeLong, trade.Side)
	suite.Equal(suite.t0, trade.EntryTime)
	suite.Equal(80.0, trade.StopLoss)
	suite.Equal(140.0, trade.TakeProfit)
	suite.Equal(1.0, trade.Size)
	suite.False(trade.BreakevenMoved)
	suite.False(trade.TrailingActive)
	suite.Same(trade, suite.trading.Active())
}

func (suite *BacktestTradingTestSuite) TestOpenShort() {
	trade := suite.openShort()

	suite.Equal(120.0, trade.StopLoss)
	suite.Equal(60.0, trade.TakeProfit)
}

func (suite *BacktestTradingTestSuite) TestOpenWhileOpen() {
	suite.openLong()

	_, err := suite.trading.Open(suite.at(1), types.PositionTypeShort, 101, 2, 1)
	suite.Error(err)
	suite.True(errors.IsInvalidStateError(err))
	suite.Equal(types.PositionTypeLong, suite.trading.Active().Side)
}

func (suite *BacktestTradingTestSuite) TestOpenInvalidSide() {
	_, err := suite.trading.Open(suite.t0, types.PositionTypeFlat, 100, 2, 1)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
	suite.Nil(suite.trading.Active())
}

func (suite *BacktestTradingTestSuite) TestOnBarWhileFlat() {
	suite.Nil(suite.trading.OnBar(suite.t0, 110, 90, 100, 2))
	suite.Nil(suite.trading.ForceClose(suite.t0, 100))
}

func (suite *BacktestTradingTestSuite) TestBreakevenMove() {
	suite.openLong()

	// progress (121-100)/(140-100) = 0.525
	done := suite.trading.OnBar(suite.at(1), 121, 100, 121, 2)
	suite.Nil(done)

	active := suite.trading.Active()
	suite.Require().NotNil(active)
	suite.True(active.BreakevenMoved)
	suite.Equal(100.0, active.StopLoss)
	// trailing is only evaluated from the next bar on
	suite.False(active.TrailingActive)
}

func (suite *BacktestTradingTestSuite) TestBreakevenBelowThreshold() {
	suite.openLong()

	// progress 0.475
	suite.Nil(suite.trading.OnBar(suite.at(1), 119, 100, 119, 2))
	suite.False(suite.trading.Active().BreakevenMoved)
	suite.Equal(80.0, suite.trading.Active().StopLoss)
}

func (suite *BacktestTradingTestSuite) TestTrailingStop() {
	suite.openLong()
	suite.trading.OnBar(suite.at(1), 121, 100, 121, 2)

	// target 100 + 2*2 = 104, close 125 activates, sl = 125 - 4
	suite.Nil(suite.trading.OnBar(suite.at(2), 130, 120, 125, 2))
	active := suite.trading.Active()
	suite.True(active.TrailingActive)
	suite.Equal(121.0, active.StopLoss)

	// close 123 would put the stop at 119, it stays at 121
	suite.Nil(suite.trading.OnBar(suite.at(3), 127, 122, 123, 2))
	suite.Equal(121.0, suite.trading.Active().StopLoss)

	// close 130 tightens to 126
	suite.Nil(suite.trading.OnBar(suite.at(4), 131, 127, 130, 2))
	suite.Equal(126.0, suite.trading.Active().StopLoss)

	done := suite.trading.OnBar(suite.at(5), 128, 125, 126, 2)
	suite.Require().NotNil(done)
	suite.Equal(types.ExitReasonTrailingStop, done.ExitReason)
	suite.Equal(126.0, done.ExitPrice)
	suite.Equal(suite.at(5), done.ExitTime)
	// (126-100) / |10*2|
	suite.InDelta(1.3, done.R, 1e-12)
	suite.Nil(suite.trading.Active())
}

func (suite *BacktestTradingTestSuite) TestBreakevenStopHitIsStopLoss() {
	suite.openLong()
	suite.trading.OnBar(suite.at(1), 121, 100, 121, 2)

	// trailing never activated so the stop at entry is a plain SL
	done := suite.trading.OnBar(suite.at(2), 103, 99, 100, 2)
	suite.Require().NotNil(done)
	suite.Equal(types.ExitReasonStopLoss, done.ExitReason)
	suite.Equal(100.0, done.ExitPrice)
	suite.Zero(done.R)
}

func (suite *BacktestTradingTestSuite) TestStopLossLong() {
	suite.openLong()

	done := suite.trading.OnBar(suite.at(1), 101, 79, 85, 2)
	suite.Require().NotNil(done)
	suite.Equal(types.ExitReasonStopLoss, done.ExitReason)
	suite.Equal(80.0, done.ExitPrice)
	suite.InDelta(-1.0, done.R, 1e-12)
	suite.True(done.IsClosed())
	suite.Nil(suite.trading.Active())
}

func (suite *BacktestTradingTestSuite) TestTakeProfitLabelledTrailing() {
	suite.openLong()

	done := suite.trading.OnBar(suite.at(1), 141, 100, 139, 2)
	suite.Require().NotNil(done)
	suite.Equal(types.ExitReasonTrailingStop, done.ExitReason)
	suite.Equal(140.0, done.ExitPrice)
	suite.InDelta(2.0, done.R, 1e-12)
	suite.False(done.TrailingActive)
}

func (suite *BacktestTradingTestSuite) TestStopCheckedBeforeTarget() {
	suite.openLong()

	done := suite.trading.OnBar(suite.at(1), 141, 79, 100, 2)
	suite.Require().NotNil(done)
	suite.Equal(types.ExitReasonStopLoss, done.ExitReason)
	suite.Equal(80.0, done.ExitPrice)
}

func (suite *BacktestTradingTestSuite) TestRUsesCurrentATR() {
	suite.openLong()

	done := suite.trading.OnBar(suite.at(1), 101, 79, 85, 4)
	suite.Require().NotNil(done)
	// -20 / |10*4|
	suite.InDelta(-0.5, done.R, 1e-12)
}

func (suite *BacktestTradingTestSuite) TestExitSkipsLevelUpdates() {
	suite.openLong()

	// the bar hits the stop and would also satisfy breakeven by close
	done := suite.trading.OnBar(suite.at(1), 125, 79, 125, 2)
	suite.Require().NotNil(done)
	suite.False(done.BreakevenMoved)
	suite.Equal(80.0, done.StopLoss)
}

func (suite *BacktestTradingTestSuite) TestShortLifecycle() {
	suite.openShort()

	// progress (100-79)/(100-60) = 0.525
	suite.Nil(suite.trading.OnBar(suite.at(1), 100, 79, 79, 2))
	suite.True(suite.trading.Active().BreakevenMoved)
	suite.Equal(100.0, suite.trading.Active().StopLoss)

	// target 96, close 75 -> sl = 79
	suite.Nil(suite.trading.OnBar(suite.at(2), 80, 70, 75, 2))
	suite.True(suite.trading.Active().TrailingActive)
	suite.Equal(79.0, suite.trading.Active().StopLoss)

	// close 78 would loosen to 82, it stays at 79
	suite.Nil(suite.trading.OnBar(suite.at(3), 78.5, 74, 78, 2))
	suite.Equal(79.0, suite.trading.Active().StopLoss)

	done := suite.trading.OnBar(suite.at(4), 80, 77, 79, 2)
	suite.Require().NotNil(done)
	suite.Equal(types.ExitReasonTrailingStop, done.ExitReason)
	suite.Equal(79.0, done.ExitPrice)
	suite.InDelta(1.05, done.R, 1e-12)
}

func (suite *BacktestTradingTestSuite) TestShortStopAndTarget() {
	suite.openShort()

	done := suite.trading.OnBar(suite.at(1), 121, 99, 110, 2)
	suite.Require().NotNil(done)
	suite.Equal(types.ExitReasonStopLoss, done.ExitReason)
	suite.Equal(120.0, done.ExitPrice)
	suite.InDelta(-1.0, done.R, 1e-12)

	suite.openShort()

	done = suite.trading.OnBar(suite.at(2), 100, 59, 61, 2)
	suite.Require().NotNil(done)
	suite.Equal(types.ExitReasonTrailingStop, done.ExitReason)
	suite.Equal(60.0, done.ExitPrice)
	suite.InDelta(2.0, done.R, 1e-12)
}

func (suite *BacktestTradingTestSuite) TestForceClose() {
	suite.openLong()
	suite.trading.OnBar(suite.at(1), 110, 99, 108, 2)

	done := suite.trading.ForceClose(suite.at(2), 107.5)
	suite.Require().NotNil(done)
	suite.Equal(types.ExitReasonBreakeven, done.ExitReason)
	suite.Equal(107.5, done.ExitPrice)
	suite.Equal(suite.at(2), done.ExitTime)
	suite.Zero(done.R)
	suite.Nil(suite.trading.Active())
}

func (suite *BacktestTradingTestSuite) TestZeroATR() {
	trade, err := suite.trading.Open(suite.t0, types.PositionTypeLong, 100, 0, 0)
	suite.Require().NoError(err)
	suite.Equal(100.0, trade.StopLoss)
	suite.Equal(100.0, trade.TakeProfit)

	done := suite.trading.OnBar(suite.at(1), 100, 100, 100, 0)
	suite.Require().NotNil(done)
	suite.Equal(types.ExitReasonStopLoss, done.ExitReason)
	suite.Zero(done.R)
}

func (suite *BacktestTradingTestSuite) TestProgressGuard() {
	trade := &types.Trade{Side: types.PositionTypeLong, EntryPrice: 100, TakeProfit: 100}
	suite.Zero(progress(trade, 150))

	trade = &types.Trade{Side: types.PositionTypeShort, EntryPrice: 100, TakeProfit: 110}
	suite.Zero(progress(trade, 50))
}
