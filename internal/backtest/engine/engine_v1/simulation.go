package engine

import (
	"context"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-replay/internal/indicator"
	"github.com/rxtech-lab/argo-replay/internal/logger"
	"github.com/rxtech-lab/argo-replay/internal/strategy"
	"github.com/rxtech-lab/argo-replay/internal/trading"
	"github.com/rxtech-lab/argo-replay/internal/types"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
	"go.uber.org/zap"
)

// Simulation replays the bars of one symbol through its own set of components.
// It is not safe for concurrent use; every symbol run builds its own.
type Simulation struct {
	symbol string
	atr    indicator.VolatilityEstimator
	regime strategy.RegimeClassifier
	signal strategy.SignalGenerator
	trades trading.TradeManager
	sizer  strategy.PositionSizer
	log    *logger.Logger
}

// SimulationResult is what a finished simulation produced.
type SimulationResult struct {
	Trades []types.Trade
	Bars   int
}

func NewSimulation(
	symbol string,
	atr indicator.VolatilityEstimator,
	regime strategy.RegimeClassifier,
	signal strategy.SignalGenerator,
	trades trading.TradeManager,
	sizer strategy.PositionSizer,
	log *logger.Logger,
) *Simulation {
	return &Simulation{
		symbol: symbol,
		atr:    atr,
		regime: regime,
		signal: signal,
		trades: trades,
		sizer:  sizer,
		log:    log,
	}
}

// Step processes one bar: ATR, then regime, then either the entry logic when
// flat or the open trade. It returns the timeline row of the bar and the
// trade closed on it, if any.
func (s *Simulation) Step(bar types.Bar) (types.TimelineRow, *types.Trade, error) {
	atr := s.atr.Update(bar.Open, bar.High, bar.Low, bar.Close)
	regime := s.regime.Update(bar.Close)
	s.signal.Observe(bar.Close)

	row := types.TimelineRow{
		Time:     bar.Time,
		Open:     bar.Open,
		High:     bar.High,
		Low:      bar.Low,
		Close:    bar.Close,
		ATR:      atr,
		Regime:   regime,
		Signal:   types.SignalNone,
		Position: types.PositionTypeFlat,
	}

	var closed *types.Trade

	active := s.trades.Active()

	switch {
	case active == nil && atr.IsSome():
		row.Signal = s.signal.Evaluate(bar.Close, regime)
		if err := s.enter(bar, regime, row.Signal, atr.Unwrap()); err != nil {
			return row, nil, err
		}
	case active != nil:
		row.Position = active.Side
		closed = s.trades.OnBar(bar.Time, bar.High, bar.Low, bar.Close, atr.TakeOr(0))

		if closed != nil {
			row.Position = types.PositionTypeFlat
			s.log.Debug("Trade closed",
				zap.String("side", string(closed.Side)),
				zap.String("reason", string(closed.ExitReason)),
				zap.Float64("exit_price", closed.ExitPrice),
				zap.Float64("R", closed.R),
			)
		}
	}

	if t := s.trades.Active(); t != nil {
		row.StopLoss = optional.Some(t.StopLoss)
		row.TakeProfit = optional.Some(t.TakeProfit)
	}

	return row, closed, nil
}

func (s *Simulation) enter(bar types.Bar, regime types.Regime, signal types.Signal, atr float64) error {
	if !regime.Matches(signal) {
		return nil
	}

	side, _ := signal.Side()

	size := s.sizer.Size(bar.Close, atr)
	if size <= 0 {
		s.log.Debug("Skipping entry with zero size",
			zap.String("side", string(side)),
			zap.Float64("price", bar.Close),
			zap.Float64("atr", atr),
		)

		return nil
	}

	trade, err := s.trades.Open(bar.Time, side, bar.Close, atr, size)
	if err != nil {
		return errors.Wrapf(errors.GetCode(err), err, "failed to open %s trade for %s", side, s.symbol)
	}

	s.log.Debug("Trade opened",
		zap.String("side", string(trade.Side)),
		zap.Float64("price", trade.EntryPrice),
		zap.Float64("sl", trade.StopLoss),
		zap.Float64("tp", trade.TakeProfit),
		zap.Float64("size", trade.Size),
	)

	return nil
}

// Run steps through bars until the stream ends, then force closes any open
// trade at the last close. onRow receives every timeline row; a non nil error
// from it stops the run.
func (s *Simulation) Run(
	ctx context.Context,
	bars func(yield func(types.Bar, error) bool),
	onRow func(row types.TimelineRow) error,
) (SimulationResult, error) {
	var result SimulationResult

	var last optional.Option[types.Bar]

	for bar, err := range bars {
		if err != nil {
			return result, err
		}

		if err := ctx.Err(); err != nil {
			return result, err
		}

		row, closed, err := s.Step(bar)
		if err != nil {
			return result, err
		}

		if closed != nil {
			result.Trades = append(result.Trades, *closed)
		}

		result.Bars++
		last = optional.Some(bar)

		if onRow != nil {
			if err := onRow(row); err != nil {
				return result, err
			}
		}
	}

	if last.IsSome() {
		bar := last.Unwrap()
		if t := s.trades.ForceClose(bar.Time, bar.Close); t != nil {
			s.log.Debug("Trade force closed at end of data",
				zap.String("side", string(t.Side)),
				zap.Float64("exit_price", t.ExitPrice),
			)
			result.Trades = append(result.Trades, *t)
		}
	}

	return result, nil
}
