package engine

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-replay/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-replay/internal/backtest/walkforward"
	"github.com/rxtech-lab/argo-replay/internal/indicator"
	"github.com/rxtech-lab/argo-replay/internal/logger"
	"github.com/rxtech-lab/argo-replay/internal/strategy"
	"github.com/rxtech-lab/argo-replay/internal/trading"
	"github.com/rxtech-lab/argo-replay/internal/types"
)

// Lifecycle callback types for backtest phases
// All callbacks with error return can abort execution if they return an error.
// With more than one worker, run-level callbacks may be invoked concurrently.

// OnBacktestStartCallback is called when the entire backtest begins.
type OnBacktestStartCallback func(runID string, totalSymbols int, totalFolds int) error

// OnBacktestEndCallback is called when the entire backtest completes (always called via defer).
type OnBacktestEndCallback func(err error)

// OnFoldStartCallback is called when a walk-forward fold begins. Non walk-forward
// modes run a single fold with index 0.
type OnFoldStartCallback func(foldIndex int, window walkforward.Window, totalFolds int) error

// OnFoldEndCallback is called when every symbol of a fold has finished.
type OnFoldEndCallback func(foldIndex int)

// OnRunStartCallback is called when the simulation of one symbol begins.
// key identifies the run in the summary, e.g. "BTCUSDT" or "BTCUSDT/fold_1".
type OnRunStartCallback func(runID string, key string, symbol string) error

// OnRunEndCallback is called when the simulation of one symbol ends successfully.
type OnRunEndCallback func(key string, symbol string, summary types.Summary, resultFolderPath string)

// OnProcessDataCallback is called for each bar processed by a run.
type OnProcessDataCallback func(key string, current int) error

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnBacktestStart *OnBacktestStartCallback
	OnBacktestEnd   *OnBacktestEndCallback
	OnFoldStart     *OnFoldStartCallback
	OnFoldEnd       *OnFoldEndCallback
	OnRunStart      *OnRunStartCallback
	OnRunEnd        *OnRunEndCallback
	OnProcessData   *OnProcessDataCallback
}

// Overrides carries command line values that take precedence over the
// configuration file. None leaves the configured value untouched.
type Overrides struct {
	Mode           optional.Option[string]
	OOSLastKMonths optional.Option[int]
	WalkForward    optional.Option[string]
	DataRoot       optional.Option[string]
	OutputsDir     optional.Option[string]
	Workers        optional.Option[int]
	LogLevel       optional.Option[string]
	Symbols        []string
	Start          optional.Option[time.Time]
	End            optional.Option[time.Time]
}

// Results is what a backtest run produced.
type Results struct {
	RunID     string
	OutputDir string
	// Summaries is keyed by "SYMBOL" or "SYMBOL/fold_N".
	Summaries map[string]types.Summary
	// Failed holds the runs that errored when continue_on_error is set.
	Failed map[string]error
}

// Components are the factories used to build the per-symbol simulation.
// Each run gets its own instances, so implementations need no locking.
type Components struct {
	NewVolatilityEstimator func(period int) (indicator.VolatilityEstimator, error)
	NewRegimeClassifier    func(nShort, nLong int) (strategy.RegimeClassifier, error)
	NewSignalGenerator     func(lookback int) (strategy.SignalGenerator, error)
	NewTradeManager        func(symbol string, params trading.ExitParams) trading.TradeManager
	NewPositionSizer       func(riskUSD, slMult float64) strategy.PositionSizer
	NewDataSource          func(root, symbol string, log *logger.Logger) datasource.DataSource
}

// Merge fills every nil factory of c with the one from defaults.
func (c Components) Merge(defaults Components) Components {
	if c.NewVolatilityEstimator == nil {
		c.NewVolatilityEstimator = defaults.NewVolatilityEstimator
	}

	if c.NewRegimeClassifier == nil {
		c.NewRegimeClassifier = defaults.NewRegimeClassifier
	}

	if c.NewSignalGenerator == nil {
		c.NewSignalGenerator = defaults.NewSignalGenerator
	}

	if c.NewTradeManager == nil {
		c.NewTradeManager = defaults.NewTradeManager
	}

	if c.NewPositionSizer == nil {
		c.NewPositionSizer = defaults.NewPositionSizer
	}

	if c.NewDataSource == nil {
		c.NewDataSource = defaults.NewDataSource
	}

	return c
}

type Engine interface {
	// Initialize parses the YAML configuration and applies the overrides on top of it.
	Initialize(config string, overrides Overrides) error
	// SetLogger replaces the logger the engine would otherwise build from the configuration.
	SetLogger(log *logger.Logger)
	// SetComponents swaps in alternate component implementations. Nil factories keep the defaults.
	SetComponents(components Components)
	// Run runs every configured symbol (and fold) and writes the artifacts.
	// The context can be used to cancel the backtest operation.
	Run(ctx context.Context, callbacks LifecycleCallbacks) (Results, error)
	// DescribeConfig returns the resolved configuration as indented JSON.
	DescribeConfig() (string, error)
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
}
