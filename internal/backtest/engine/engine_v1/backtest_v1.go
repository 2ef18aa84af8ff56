package engine

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-replay/internal/backtest/engine"
	"github.com/rxtech-lab/argo-replay/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-replay/internal/backtest/engine/engine_v1/writers"
	"github.com/rxtech-lab/argo-replay/internal/backtest/walkforward"
	"github.com/rxtech-lab/argo-replay/internal/indicator"
	"github.com/rxtech-lab/argo-replay/internal/logger"
	"github.com/rxtech-lab/argo-replay/internal/strategy"
	"github.com/rxtech-lab/argo-replay/internal/trading"
	"github.com/rxtech-lab/argo-replay/internal/types"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	defaultWalkForwardStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	defaultWalkForwardEnd   = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
)

type BacktestEngineV1 struct {
	config      BacktestEngineV1Config
	log         *logger.Logger
	components  engine.Components
	initialized bool
	now         func() time.Time
}

// RunContext is the per invocation state shared by every symbol run.
type RunContext struct {
	RunID      string
	Config     BacktestEngineV1Config
	Components engine.Components
	Logger     *logger.Logger
	Callbacks  engine.LifecycleCallbacks
}

func NewBacktestEngineV1() engine.Engine {
	return &BacktestEngineV1{
		config:      DefaultConfig(),
		log:         nil,
		components:  DefaultComponents(),
		initialized: false,
		now:         time.Now,
	}
}

// DefaultComponents returns the in-repo implementation of every component.
func DefaultComponents() engine.Components {
	return engine.Components{
		NewVolatilityEstimator: func(period int) (indicator.VolatilityEstimator, error) {
			atr, err := indicator.NewATR(period)
			if err != nil {
				return nil, err
			}

			return atr, nil
		},
		NewRegimeClassifier: func(nShort, nLong int) (strategy.RegimeClassifier, error) {
			regime, err := strategy.NewSlopeRegime(nShort, nLong)
			if err != nil {
				return nil, err
			}

			return regime, nil
		},
		NewSignalGenerator: func(lookback int) (strategy.SignalGenerator, error) {
			signal, err := strategy.NewPullbackResumption(lookback)
			if err != nil {
				return nil, err
			}

			return signal, nil
		},
		NewTradeManager: func(symbol string, params trading.ExitParams) trading.TradeManager {
			return NewBacktestTrading(symbol, params)
		},
		NewPositionSizer: func(riskUSD, slMult float64) strategy.PositionSizer {
			return strategy.NewFixedRiskSizer(riskUSD, slMult)
		},
		NewDataSource: func(root, symbol string, log *logger.Logger) datasource.DataSource {
			return datasource.NewFileDataSource(root, symbol, log)
		},
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string, overrides engine.Overrides) error {
	cfg, err := LoadConfig(config)
	if err != nil {
		return err
	}

	if err := cfg.Merge(overrides); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	b.config = cfg

	if b.log == nil {
		b.log, err = logger.NewLoggerWithConfig(logger.Config{
			Level: overrides.LogLevel.TakeOr("info"),
			File:  logFilePath(cfg.Paths.OutputsDir),
		})
		if err != nil {
			return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create logger", err)
		}
	}

	b.initialized = true

	b.log.Debug("Backtest engine initialized",
		zap.String("mode", string(cfg.Backtest.Mode)),
		zap.Strings("symbols", cfg.Symbols),
		zap.Int("workers", cfg.Backtest.Workers),
	)

	return nil
}

// SetLogger implements engine.Engine.
func (b *BacktestEngineV1) SetLogger(log *logger.Logger) {
	b.log = log
}

// SetComponents implements engine.Engine.
func (b *BacktestEngineV1) SetComponents(components engine.Components) {
	b.components = components.Merge(DefaultComponents())
}

// DescribeConfig implements engine.Engine.
func (b *BacktestEngineV1) DescribeConfig() (string, error) {
	data, err := json.MarshalIndent(b.config.Backtest, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to marshal backtest settings", err)
	}

	return string(data), nil
}

func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to generate schema", err)
	}

	return schema, nil
}

// Run implements engine.Engine.
// Folds run one after another; within a fold, symbols run on up to
// backtest.workers goroutines.
func (b *BacktestEngineV1) Run(ctx context.Context, callbacks engine.LifecycleCallbacks) (results engine.Results, runErr error) {
	if !b.initialized {
		return engine.Results{}, errors.New(errors.ErrCodeBacktestInitFailed, "engine is not initialized")
	}

	if callbacks.OnBacktestEnd != nil {
		defer func() {
			(*callbacks.OnBacktestEnd)(runErr)
		}()
	}

	rc := RunContext{
		RunID:      uuid.NewString(),
		Config:     b.config,
		Components: b.components,
		Logger:     b.log,
		Callbacks:  callbacks,
	}

	results = engine.Results{
		RunID:     rc.RunID,
		OutputDir: getResultFolder(b.config.Paths.OutputsDir, fold{}),
		Summaries: make(map[string]types.Summary),
		Failed:    make(map[string]error),
	}

	folds, err := b.plan()
	if err != nil {
		return results, err
	}

	if callbacks.OnBacktestStart != nil {
		if err := (*callbacks.OnBacktestStart)(rc.RunID, len(b.config.Symbols), len(folds)); err != nil {
			return results, errors.Wrap(errors.ErrCodeCallbackFailed, "backtest start callback failed", err)
		}
	}

	b.log.Info("Backtest run started",
		zap.String("run_id", rc.RunID),
		zap.String("mode", string(b.config.Backtest.Mode)),
		zap.Strings("symbols", b.config.Symbols),
		zap.String("data_root", b.config.Paths.DataRoot),
		zap.Int("folds", len(folds)),
	)

	var mu sync.Mutex

	for _, f := range folds {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if err := b.runFold(ctx, rc, f, len(folds), &results, &mu); err != nil {
			return results, err
		}
	}

	if err := types.WriteSummaries(results.OutputDir, results.Summaries); err != nil {
		return results, errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to write summaries", err)
	}

	b.log.Info("Backtest run finished",
		zap.String("run_id", rc.RunID),
		zap.Int("runs", len(results.Summaries)),
		zap.Int("failed", len(results.Failed)),
	)

	return results, nil
}

// plan turns the run mode into the folds to execute.
func (b *BacktestEngineV1) plan() ([]fold, error) {
	bt := b.config.Backtest

	switch bt.Mode {
	case ModeOOS:
		end := bt.End.TakeOr(b.now().UTC().Truncate(time.Second))

		start, end, err := walkforward.OOSWindow(end, bt.OOSLastKMonths)
		if err != nil {
			return nil, err
		}

		return []fold{{index: 0, start: optional.Some(start), end: optional.Some(end)}}, nil
	case ModeWalkForward:
		if bt.Start.IsNone() || bt.End.IsNone() {
			b.log.Warn("walkforward requires start and end for deterministic windows",
				zap.Time("start", bt.Start.TakeOr(defaultWalkForwardStart)),
				zap.Time("end", bt.End.TakeOr(defaultWalkForwardEnd)),
			)
		}

		windows, err := walkforward.BuildWindows(
			bt.Start.TakeOr(defaultWalkForwardStart),
			bt.End.TakeOr(defaultWalkForwardEnd),
			bt.WalkForward,
		)
		if err != nil {
			return nil, err
		}

		folds := make([]fold, 0, len(windows))
		for i, w := range windows {
			folds = append(folds, fold{
				index:  i,
				window: optional.Some(w),
				start:  optional.Some(w.TestStart),
				end:    optional.Some(w.TestEnd),
			})
		}

		return folds, nil
	default:
		return []fold{{index: 0, start: bt.Start, end: bt.End}}, nil
	}
}

func (b *BacktestEngineV1) runFold(ctx context.Context, rc RunContext, f fold, totalFolds int, results *engine.Results, mu *sync.Mutex) error {
	window := f.window.TakeOr(walkforward.Window{
		TestStart: f.start.TakeOr(time.Time{}),
		TestEnd:   f.end.TakeOr(time.Time{}),
	})

	if rc.Callbacks.OnFoldStart != nil {
		if err := (*rc.Callbacks.OnFoldStart)(f.index, window, totalFolds); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "fold start callback failed", err)
		}
	}

	if f.isWalkForward() {
		rc.Logger.Info("Walk-forward fold",
			zap.Int("fold", f.index),
			zap.String("window", window.String()),
		)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rc.Config.Backtest.Workers)

	for _, symbol := range rc.Config.Symbols {
		key := runKey(symbol, f)

		g.Go(func() error {
			summary, dir, err := b.runSymbol(gctx, rc, symbol, key, f)
			if err != nil {
				err = errors.Wrapf(errors.GetCode(err), err, "backtest %s failed", key)
				if !rc.Config.Backtest.ContinueOnError || errors.HasCode(err, errors.ErrCodeCallbackFailed) || isInterrupted(err) {
					return err
				}

				rc.Logger.Error("Symbol run failed", zap.String("key", key), zap.Error(err))

				mu.Lock()
				results.Failed[key] = err
				mu.Unlock()

				return nil
			}

			mu.Lock()
			results.Summaries[key] = summary
			mu.Unlock()

			if rc.Callbacks.OnRunEnd != nil {
				(*rc.Callbacks.OnRunEnd)(key, symbol, summary, dir)
			}

			return nil
		})
	}

	err := g.Wait()

	if rc.Callbacks.OnFoldEnd != nil {
		(*rc.Callbacks.OnFoldEnd)(f.index)
	}

	return err
}

// runSymbol simulates one symbol over the fold's range and writes its artifacts.
func (b *BacktestEngineV1) runSymbol(ctx context.Context, rc RunContext, symbol, key string, f fold) (types.Summary, string, error) {
	log := rc.Logger.ForSymbol(symbol)
	if f.isWalkForward() {
		log = &logger.Logger{Logger: log.With(zap.Int("fold", f.index))}
	}

	sim, ds, err := b.buildSimulation(rc, symbol, log)
	if err != nil {
		return types.Summary{}, "", err
	}
	defer ds.Close()

	if rc.Callbacks.OnRunStart != nil {
		if err := (*rc.Callbacks.OnRunStart)(rc.RunID, key, symbol); err != nil {
			return types.Summary{}, "", errors.Wrap(errors.ErrCodeCallbackFailed, "run start callback failed", err)
		}
	}

	dir := getResultFolder(rc.Config.Paths.OutputsDir, f)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return types.Summary{}, "", errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to create %s", dir)
	}

	path := timelinePath(dir, symbol)

	timeline, err := writers.NewTimelineWriter(path)
	if err != nil {
		return types.Summary{}, "", err
	}

	completed := false

	defer func() {
		timeline.Close()

		if completed {
			return
		}

		// a failed run keeps its rows under a name no reader picks up as a timeline
		if err := os.Rename(path, partialPath(path)); err != nil {
			log.Warn("Failed to set aside partial timeline", zap.String("path", path), zap.Error(err))
		}
	}()

	processed := 0
	onRow := func(row types.TimelineRow) error {
		if err := timeline.Write(row); err != nil {
			return err
		}

		processed++

		if rc.Callbacks.OnProcessData != nil {
			if err := (*rc.Callbacks.OnProcessData)(key, processed); err != nil {
				return errors.Wrap(errors.ErrCodeCallbackFailed, "process data callback failed", err)
			}
		}

		return nil
	}

	result, err := sim.Run(ctx, ds.ReadAll(f.start, f.end), onRow)
	if err != nil {
		return types.Summary{}, "", err
	}

	if err := timeline.Close(); err != nil {
		return types.Summary{}, "", err
	}

	if err := b.writeTrades(rc, dir, symbol, result.Trades, log); err != nil {
		return types.Summary{}, "", err
	}

	summary := types.ComputeSummary(result.Trades)
	summary.RunID = rc.RunID
	summary.Symbol = symbol
	summary.Bars = result.Bars

	completed = true

	log.Info("Symbol run finished",
		zap.Int("bars", result.Bars),
		zap.Int("trades", summary.Trades),
		zap.Float64("sum_R", summary.SumR),
	)

	return summary, dir, nil
}

func (b *BacktestEngineV1) buildSimulation(rc RunContext, symbol string, log *logger.Logger) (*Simulation, datasource.DataSource, error) {
	cfg := rc.Config
	params := cfg.ExitParamsFor(symbol)

	atr, err := rc.Components.NewVolatilityEstimator(cfg.ATRPeriodFor(symbol))
	if err != nil {
		return nil, nil, err
	}

	regime, err := rc.Components.NewRegimeClassifier(cfg.Regime.Slope.NShort, cfg.Regime.Slope.NLong)
	if err != nil {
		return nil, nil, err
	}

	signal, err := rc.Components.NewSignalGenerator(cfg.Entry.PullbackResumption.MALookback)
	if err != nil {
		return nil, nil, err
	}

	trades := rc.Components.NewTradeManager(symbol, params)
	sizer := rc.Components.NewPositionSizer(cfg.RiskFor(symbol), params.SLMult)
	ds := rc.Components.NewDataSource(cfg.Paths.DataRoot, symbol, log)

	return NewSimulation(symbol, atr, regime, signal, trades, sizer, log), ds, nil
}

// writeTrades writes the trades CSV, and the parquet copy when enabled. Nothing
// is written for a run without trades.
func (b *BacktestEngineV1) writeTrades(rc RunContext, dir, symbol string, trades []types.Trade, log *logger.Logger) error {
	if len(trades) == 0 {
		return nil
	}

	if err := writers.WriteTradesCSV(tradesCSVPath(dir, symbol), trades); err != nil {
		return err
	}

	if !rc.Config.Outputs.Parquet {
		return nil
	}

	pw, err := writers.NewTradesParquetWriter(log)
	if err != nil {
		return err
	}
	defer pw.Close()

	if err := pw.Add(trades...); err != nil {
		return err
	}

	return pw.Write(tradesParquetPath(dir, symbol))
}
