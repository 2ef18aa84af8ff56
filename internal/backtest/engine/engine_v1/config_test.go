package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	engine_types "github.com/rxtech-lab/argo-replay/internal/backtest/engine"
	"github.com/rxtech-lab/argo-replay/internal/backtest/walkforward"
	"github.com/rxtech-lab/argo-replay/internal/trading"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestDefaultConfig() {
	config := DefaultConfig()

	suite.Equal(ModeInSample, config.Backtest.Mode)
	suite.Equal(1, config.Backtest.OOSLastKMonths)
	suite.Equal(walkforward.Spec{TrainMonths: 3, TestMonths: 1, StepMonths: 1}, config.Backtest.WalkForward)
	suite.Equal(1, config.Backtest.Workers)
	suite.True(config.Backtest.Start.IsNone())
	suite.True(config.Backtest.End.IsNone())
	suite.Equal("data", config.Paths.DataRoot)
	suite.Equal("outputs", config.Paths.OutputsDir)
	suite.Equal([]string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}, config.Symbols)
	suite.Equal(30, config.Regime.Slope.NShort)
	suite.Equal(120, config.Regime.Slope.NLong)
	suite.Equal(20, config.Entry.PullbackResumption.MALookback)
	suite.False(config.Outputs.Parquet)
	suite.NoError(config.Validate())
}

func (suite *ConfigTestSuite) TestLoadConfig() {
	config, err := LoadConfig(`
backtest:
  mode: walkforward
  workers: 4
  walkforward:
    train_months: 2
    test_months: 2
    step_months: 1
  start: "2025-01-01T00:00:00"
  end: 2025-07-01
paths:
  data_root: /data/market
symbols: [BTCUSDT]
regime:
  slope:
    n_short: 5
    n_long: 50
exits:
  BTCUSDT:
    sl_mult: 10
    breakeven_progress: 0
    atr_period: 21
risk:
  BTCUSDT:
    risk_usd: 25
outputs:
  parquet: true
`)
	suite.Require().NoError(err)
	suite.Require().NoError(config.Validate())

	suite.Equal(ModeWalkForward, config.Backtest.Mode)
	suite.Equal(4, config.Backtest.Workers)
	suite.Equal(1, config.Backtest.OOSLastKMonths)
	suite.Equal(walkforward.Spec{TrainMonths: 2, TestMonths: 2, StepMonths: 1}, config.Backtest.WalkForward)
	suite.Equal(optional.Some(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)), config.Backtest.Start)
	suite.Equal(optional.Some(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)), config.Backtest.End)
	suite.Equal("/data/market", config.Paths.DataRoot)
	suite.Equal("outputs", config.Paths.OutputsDir)
	suite.Equal([]string{"BTCUSDT"}, config.Symbols)
	suite.Equal(5, config.Regime.Slope.NShort)
	suite.Equal(50, config.Regime.Slope.NLong)
	suite.Equal(20, config.Entry.PullbackResumption.MALookback)
	suite.True(config.Outputs.Parquet)

	suite.Equal(trading.ExitParams{SLMult: 10, TPMult: 60, BreakevenProgress: 0, TrailingStepMult: 3}, config.ExitParamsFor("BTCUSDT"))
	suite.Equal(21, config.ATRPeriodFor("BTCUSDT"))
	suite.Equal(25.0, config.RiskFor("BTCUSDT"))

	suite.Equal(trading.DefaultExitParams(), config.ExitParamsFor("ETHUSDT"))
	suite.Equal(DefaultATRPeriod, config.ATRPeriodFor("ETHUSDT"))
	suite.Equal(DefaultRiskUSD, config.RiskFor("ETHUSDT"))
}

func (suite *ConfigTestSuite) TestLoadConfigErrors() {
	tests := []struct {
		name    string
		content string
	}{
		{name: "Malformed YAML", content: "backtest: [unclosed"},
		{name: "Bad start", content: "backtest:\n  start: yesterday\n"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := LoadConfig(tc.content)
			suite.Error(err)
			suite.Equal(errors.ErrCodeBacktestConfigError, errors.GetCode(err))
		})
	}
}

func (suite *ConfigTestSuite) TestValidate() {
	tests := []struct {
		name   string
		mutate func(c *BacktestEngineV1Config)
		code   errors.ErrorCode
	}{
		{name: "Unknown mode", mutate: func(c *BacktestEngineV1Config) { c.Backtest.Mode = "live" }, code: errors.ErrCodeInvalidConfiguration},
		{name: "Zero workers", mutate: func(c *BacktestEngineV1Config) { c.Backtest.Workers = 0 }, code: errors.ErrCodeInvalidConfiguration},
		{name: "No symbols", mutate: func(c *BacktestEngineV1Config) { c.Symbols = nil }, code: errors.ErrCodeInvalidConfiguration},
		{name: "Empty symbol", mutate: func(c *BacktestEngineV1Config) { c.Symbols = []string{""} }, code: errors.ErrCodeInvalidConfiguration},
		{name: "Zero risk", mutate: func(c *BacktestEngineV1Config) { c.Risk["BTCUSDT"] = SymbolRisk{RiskUSD: 0} }, code: errors.ErrCodeInvalidConfiguration},
		{name: "Zero OOS months", mutate: func(c *BacktestEngineV1Config) { c.Backtest.OOSLastKMonths = 0 }, code: errors.ErrCodeInvalidConfiguration},
		{
			name: "Breakeven above one",
			mutate: func(c *BacktestEngineV1Config) {
				progress := 1.5
				c.Exits["BTCUSDT"] = SymbolExits{BreakevenProgress: &progress}
			},
			code: errors.ErrCodeInvalidConfiguration,
		},
		{
			name: "Negative ATR period",
			mutate: func(c *BacktestEngineV1Config) {
				period := -1
				c.Exits["BTCUSDT"] = SymbolExits{ATRPeriod: &period}
			},
			code: errors.ErrCodeInvalidConfiguration,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			config := DefaultConfig()
			tc.mutate(&config)

			err := config.Validate()
			suite.Require().Error(err)
			suite.Equal(tc.code, errors.GetCode(err))
		})
	}
}

func (suite *ConfigTestSuite) TestMerge() {
	config := DefaultConfig()
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	err := config.Merge(engine_types.Overrides{
		OOSLastKMonths: optional.Some(3),
		DataRoot:       optional.Some("/mnt/data"),
		Workers:        optional.Some(8),
		Symbols:        []string{"SOLUSDT"},
		Start:          optional.Some(start),
	})
	suite.Require().NoError(err)

	suite.Equal(ModeInSample, config.Backtest.Mode)
	suite.Equal(3, config.Backtest.OOSLastKMonths)
	suite.Equal("/mnt/data", config.Paths.DataRoot)
	suite.Equal("outputs", config.Paths.OutputsDir)
	suite.Equal(8, config.Backtest.Workers)
	suite.Equal([]string{"SOLUSDT"}, config.Symbols)
	suite.Equal(optional.Some(start), config.Backtest.Start)
	suite.True(config.Backtest.End.IsNone())
}

func (suite *ConfigTestSuite) TestMergeWalkForwardSwitchesMode() {
	config := DefaultConfig()

	err := config.Merge(engine_types.Overrides{
		Mode:        optional.Some("oos"),
		WalkForward: optional.Some("train=6,test=2,step=2"),
	})
	suite.Require().NoError(err)

	suite.Equal(ModeWalkForward, config.Backtest.Mode)
	suite.Equal(walkforward.Spec{TrainMonths: 6, TestMonths: 2, StepMonths: 2}, config.Backtest.WalkForward)
}

func (suite *ConfigTestSuite) TestMergeInvalidWalkForward() {
	config := DefaultConfig()

	err := config.Merge(engine_types.Overrides{WalkForward: optional.Some("train=3,test=1,step=2")})
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeInvalidWalkForward, errors.GetCode(err))
	suite.Equal(ModeInSample, config.Backtest.Mode)
}

func (suite *ConfigTestSuite) TestGenerateSchema() {
	config := &BacktestEngineV1Config{}
	schema, err := config.GenerateSchema()

	suite.NoError(err)
	suite.NotNil(schema)
	suite.Equal("backtest-engine-v1-config", schema.Title)
	suite.Equal("Configuration schema for BacktestEngineV1", schema.Description)
	suite.Equal("http://json-schema.org/draft-07/schema#", schema.Version)
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	config := &BacktestEngineV1Config{}
	schemaJSON, err := config.GenerateSchemaJSON()

	suite.NoError(err)
	suite.NotEmpty(schemaJSON)

	var parsed map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(schemaJSON), &parsed))
	suite.Equal("backtest-engine-v1-config", parsed["title"])
	suite.Contains(schemaJSON, "backtest")
	suite.Contains(schemaJSON, "walkforward")
	suite.Contains(schemaJSON, "insample")
	suite.Contains(schemaJSON, "date-time")
}
